package ring

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// Bout is the full record of one resolved fight.
type Bout struct {
	ID     uuid.UUID
	Winner *boxer.Boxer
	Loser  *boxer.Boxer
	// Skills holds the contestants' scores in corner order.
	Skills      [Capacity]float64
	Delta       float64
	Probability float64
	Draw        float64
}

// FirstCornerWon reports whether the contestant admitted first won.
func (b Bout) FirstCornerWon() bool {
	return b.Draw < b.Probability
}

// Fight resolves a bout between the two contestants and returns the winner's name.
//
// The first contestant wins when the random draw is below
// WinProbability(skill1, skill2); otherwise the second wins. The winner's
// "win" is recorded before the loser's "loss", then the ring is cleared.
//
// Precondition: State() == Full.
// Postcondition: On success the ring is Empty and exactly two stat updates
// were issued. On any error the ring is left as it was; a failed stat update
// is reported as a *StatsError.
func (r *Ring) Fight(ctx context.Context) (string, error) {
	if len(r.contestants) < Capacity {
		return "", ErrInsufficientContestants
	}

	first, second := r.contestants[0], r.contestants[1]
	skill1, skill2 := Skill(first), Skill(second)
	probability := WinProbability(skill1, skill2)

	draw, err := r.src.NextRandom(ctx)
	if err != nil {
		return "", fmt.Errorf("drawing random number: %w", err)
	}

	winner, loser := second, first
	if draw < probability {
		winner, loser = first, second
	}

	updates := []StatUpdate{
		{BoxerID: winner.ID, Result: boxer.ResultWin},
		{BoxerID: loser.ID, Result: boxer.ResultLoss},
	}
	for i, u := range updates {
		if err := r.stats.UpdateStats(ctx, u.BoxerID, u.Result); err != nil {
			return "", &StatsError{Failed: u, Applied: updates[:i:i], Err: err}
		}
	}

	bout := Bout{
		ID:          uuid.New(),
		Winner:      winner,
		Loser:       loser,
		Skills:      [Capacity]float64{skill1, skill2},
		Delta:       math.Abs(skill1 - skill2),
		Probability: probability,
		Draw:        draw,
	}

	r.Clear()
	for _, h := range r.hooks {
		h.BoutResolved(bout)
	}
	return winner.Name, nil
}
