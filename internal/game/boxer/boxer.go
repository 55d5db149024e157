// Package boxer defines boxer records, weight classes, fight results and
// leaderboard ranking.
package boxer

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidArgument is returned when a value passed to a boxer or ring
// operation is outside its accepted domain.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrStatsInvariant is returned when a stat update would leave Wins > Fights.
var ErrStatsInvariant = errors.New("wins cannot exceed number of fights")

// Creation bounds.
const (
	MinWeight     = 125.0
	MinAge        = 18
	MaxAge        = 40
	MaxNameLength = 128
)

// WeightClass is the division a boxer competes in, derived from weight.
type WeightClass string

const (
	Featherweight WeightClass = "FEATHERWEIGHT"
	Lightweight   WeightClass = "LIGHTWEIGHT"
	Middleweight  WeightClass = "MIDDLEWEIGHT"
	Heavyweight   WeightClass = "HEAVYWEIGHT"
)

// WeightClassFor returns the weight class for weight.
//
// Precondition: weight >= MinWeight.
// Postcondition: Returns one of the four classes, or ErrInvalidArgument.
func WeightClassFor(weight float64) (WeightClass, error) {
	switch {
	case weight >= 203:
		return Heavyweight, nil
	case weight >= 166:
		return Middleweight, nil
	case weight >= 133:
		return Lightweight, nil
	case weight >= MinWeight:
		return Featherweight, nil
	default:
		return "", fmt.Errorf("%w: invalid weight: %g. Weight must be at least %g", ErrInvalidArgument, weight, MinWeight)
	}
}

// Boxer is a persisted boxer record.
//
// Invariant: 0 <= Wins <= Fights.
type Boxer struct {
	// ID is assigned by the repository at creation; 0 means not yet persisted.
	ID          int64
	Name        string
	Weight      float64
	Height      float64
	Reach       float64
	Age         int
	WeightClass WeightClass
	Fights      int
	Wins        int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New builds an unpersisted Boxer after validating every attribute and
// deriving its weight class. The name is trimmed.
//
// Postcondition: Returns a Boxer with ID 0, zero stats and WeightClass set,
// or an error wrapping ErrInvalidArgument.
func New(name string, weight, height, reach float64, age int) (*Boxer, error) {
	b := &Boxer{
		Name:   strings.TrimSpace(name),
		Weight: weight,
		Height: height,
		Reach:  reach,
		Age:    age,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	wc, err := WeightClassFor(weight)
	if err != nil {
		return nil, err
	}
	b.WeightClass = wc
	return b, nil
}

// Validate checks the creation-time attribute policy.
//
// Postcondition: Returns nil or an error wrapping ErrInvalidArgument listing every violation.
func (b *Boxer) Validate() error {
	var errs []string
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, "name must not be empty")
	} else if n := utf8.RuneCountInString(b.Name); n > MaxNameLength {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters, got %d", MaxNameLength, n))
	}
	if b.Weight < MinWeight {
		errs = append(errs, fmt.Sprintf("weight must be at least %g, got %g", MinWeight, b.Weight))
	}
	if b.Height <= 0 {
		errs = append(errs, fmt.Sprintf("height must be > 0, got %g", b.Height))
	}
	if b.Reach <= 0 {
		errs = append(errs, fmt.Sprintf("reach must be > 0, got %g", b.Reach))
	}
	if b.Age < MinAge || b.Age > MaxAge {
		errs = append(errs, fmt.Sprintf("age must be between %d and %d, got %d", MinAge, MaxAge, b.Age))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(errs, "; "))
	}
	return nil
}

// Persisted reports whether b refers to a stored record.
func (b *Boxer) Persisted() bool {
	return b != nil && b.ID > 0 && b.Name != ""
}

// Record applies one fight result: Fights always increments, Wins only on a win.
//
// Postcondition: On success Wins <= Fights; on error b is unchanged.
func (b *Boxer) Record(result Result) error {
	if !result.Valid() {
		return fmt.Errorf("%w: result must be 'win' or 'loss', got %q", ErrInvalidArgument, string(result))
	}
	fights, wins := b.Fights+1, b.Wins
	if result == ResultWin {
		wins++
	}
	if wins > fights {
		return ErrStatsInvariant
	}
	b.Fights, b.Wins = fights, wins
	return nil
}

// WinPct returns the win percentage rounded to one decimal place, 0 with no fights.
func (b *Boxer) WinPct() float64 {
	return winPct(b.Wins, b.Fights)
}
