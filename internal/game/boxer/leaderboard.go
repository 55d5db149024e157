package boxer

import (
	"fmt"
	"math"
	"sort"
)

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByWins   SortKey = "wins"
	SortByWinPct SortKey = "win_pct"
)

// ParseSortKey converts s into a SortKey.
//
// Postcondition: Returns a valid SortKey or an error wrapping ErrInvalidArgument.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByWins, SortByWinPct:
		return k, nil
	default:
		return "", fmt.Errorf("%w: invalid sort_by parameter: %s", ErrInvalidArgument, s)
	}
}

// Standing is one leaderboard row.
type Standing struct {
	Boxer
	WinPct float64
}

// Rank builds a leaderboard from boxers. Boxers without fights are dropped;
// the rest are ordered by key descending with ascending ID breaking ties.
//
// Precondition: key must be a valid SortKey.
// Postcondition: The input slice is not modified.
func Rank(boxers []*Boxer, key SortKey) []Standing {
	out := make([]Standing, 0, len(boxers))
	for _, b := range boxers {
		if b == nil || b.Fights == 0 {
			continue
		}
		out = append(out, Standing{Boxer: *b, WinPct: b.WinPct()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortByWinPct:
			if a.WinPct != b.WinPct {
				return a.WinPct > b.WinPct
			}
		default:
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
		}
		return a.ID < b.ID
	})
	return out
}

func winPct(wins, fights int) float64 {
	if fights == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(fights)*1000) / 10
}
