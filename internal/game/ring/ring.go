// Package ring implements the fight-resolution engine: a two-slot ring,
// the skill score, and the probabilistic winner decision.
//
// A Ring has no internal locking. Callers that share one across goroutines
// must serialise access themselves.
package ring

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
)

// Capacity is the maximum number of contestants a ring holds.
const Capacity = 2

// State is the ring's occupancy.
type State int

const (
	Empty State = iota
	OneContestant
	Full
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case OneContestant:
		return "one contestant"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// StatsUpdater records a fight result against a stored boxer.
type StatsUpdater interface {
	// UpdateStats increments fights, and wins when result is a win, then persists.
	//
	// Postcondition: Returns an error wrapping boxer.ErrInvalidArgument for an unknown result.
	UpdateStats(ctx context.Context, boxerID int64, result boxer.Result) error
}

// Ring holds up to two boxer references in insertion order.
//
// Invariant: len(contestants) <= Capacity.
type Ring struct {
	contestants []*boxer.Boxer
	src         random.Source
	stats       StatsUpdater
	hooks       []Hook
}

// NewRing creates an empty ring that draws from src and reports results to stats.
//
// Precondition: src and stats must be non-nil.
// Postcondition: Returns a Ring in the Empty state.
func NewRing(src random.Source, stats StatsUpdater, hooks ...Hook) *Ring {
	return &Ring{
		contestants: make([]*boxer.Boxer, 0, Capacity),
		src:         src,
		stats:       stats,
		hooks:       hooks,
	}
}

// State reports the current occupancy.
func (r *Ring) State() State {
	return State(len(r.contestants))
}

// Len returns the number of contestants.
func (r *Ring) Len() int { return len(r.contestants) }

// Admit places b in the next free corner.
//
// Precondition: b must be a persisted boxer (non-nil, ID > 0, non-empty name).
// Postcondition: On success Len() grows by one; on error the ring is unchanged.
func (r *Ring) Admit(b *boxer.Boxer) error {
	if !b.Persisted() {
		return fmt.Errorf("%w: expected a stored boxer", boxer.ErrInvalidArgument)
	}
	if len(r.contestants) >= Capacity {
		return ErrCapacityExceeded
	}
	r.contestants = append(r.contestants, b)
	corner := len(r.contestants)
	for _, h := range r.hooks {
		h.BoxerEntered(b, corner)
	}
	return nil
}

// Clear removes every contestant. Clearing an empty ring is a no-op.
//
// Postcondition: State() == Empty.
func (r *Ring) Clear() {
	removed := len(r.contestants)
	if removed == 0 {
		return
	}
	clear(r.contestants)
	r.contestants = r.contestants[:0]
	for _, h := range r.hooks {
		h.RingCleared(removed)
	}
}

// Contestants returns the current contestants in insertion order.
//
// Postcondition: The returned slice is a copy; the ring is not modified.
func (r *Ring) Contestants() []*boxer.Boxer {
	out := make([]*boxer.Boxer, len(r.contestants))
	copy(out, r.contestants)
	return out
}
