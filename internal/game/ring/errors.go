package ring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// ErrCapacityExceeded is returned when admitting into a full ring.
var ErrCapacityExceeded = errors.New("ring is full, cannot add more boxers")

// ErrInsufficientContestants is returned when fighting with fewer than two boxers.
var ErrInsufficientContestants = errors.New("there must be two boxers to start a fight")

// ErrStatsUpdate is wrapped by every StatsError.
var ErrStatsUpdate = errors.New("stats update failed")

// StatUpdate is one stat update issued after a fight.
type StatUpdate struct {
	BoxerID int64
	Result  boxer.Result
}

// StatsError reports a fight whose winner was decided but whose stats were
// not fully recorded. The ring is left Full so the fight can be retried;
// Applied lists the updates that already succeeded and would be applied again
// on retry.
type StatsError struct {
	Failed  StatUpdate
	Applied []StatUpdate
	Err     error
}

// Error implements error.
func (e *StatsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: boxer %d %s: %v", ErrStatsUpdate, e.Failed.BoxerID, e.Failed.Result, e.Err)
	if len(e.Applied) > 0 {
		b.WriteString(" (already applied:")
		for _, u := range e.Applied {
			fmt.Fprintf(&b, " boxer %d %s", u.BoxerID, u.Result)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes both ErrStatsUpdate and the underlying cause to errors.Is/As.
func (e *StatsError) Unwrap() []error {
	return []error{ErrStatsUpdate, e.Err}
}

// Partial reports whether some updates were applied before the failure.
func (e *StatsError) Partial() bool {
	return len(e.Applied) > 0
}
