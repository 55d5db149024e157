package ring_test

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/game/ring"
)

// sequenceSource returns its values in order, then repeats the last one.
type sequenceSource struct {
	values []float64
	err    error
	calls  int
}

func (s *sequenceSource) NextRandom(context.Context) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	i := s.calls - 1
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	return s.values[i], nil
}

func fixed(v float64) *sequenceSource { return &sequenceSource{values: []float64{v}} }

func unavailable() *sequenceSource {
	return &sequenceSource{err: fmt.Errorf("%w: connection refused", random.ErrSourceUnavailable)}
}

type statCall struct {
	id     int64
	result boxer.Result
}

// recordingStats applies updates to an in-memory table and records every call.
// failOn makes the n-th call (1-based) fail.
type recordingStats struct {
	boxers map[int64]*boxer.Boxer
	calls  []statCall
	failOn int
	err    error
}

func newRecordingStats(boxers ...*boxer.Boxer) *recordingStats {
	s := &recordingStats{boxers: make(map[int64]*boxer.Boxer)}
	for _, b := range boxers {
		s.boxers[b.ID] = b
	}
	return s
}

func (s *recordingStats) UpdateStats(_ context.Context, id int64, result boxer.Result) error {
	s.calls = append(s.calls, statCall{id: id, result: result})
	if s.failOn == len(s.calls) {
		return s.err
	}
	b, ok := s.boxers[id]
	if !ok {
		return fmt.Errorf("boxer %d not found", id)
	}
	return b.Record(result)
}

type recordingHook struct {
	entered []int
	bouts   []ring.Bout
	cleared []int
}

func (h *recordingHook) BoxerEntered(_ *boxer.Boxer, corner int) { h.entered = append(h.entered, corner) }
func (h *recordingHook) BoutResolved(b ring.Bout)                { h.bouts = append(h.bouts, b) }
func (h *recordingHook) RingCleared(removed int)                 { h.cleared = append(h.cleared, removed) }

func ali() *boxer.Boxer {
	return &boxer.Boxer{ID: 1, Name: "Ali", Weight: 150, Height: 70, Reach: 72.5, Age: 30}
}

func tyson() *boxer.Boxer {
	return &boxer.Boxer{ID: 2, Name: "Tyson", Weight: 160, Height: 72, Reach: 73.0, Age: 32}
}

func samantha() *boxer.Boxer {
	return &boxer.Boxer{ID: 3, Name: "Samantha", Weight: 140, Height: 68, Reach: 71.0, Age: 23}
}

func jake() *boxer.Boxer {
	return &boxer.Boxer{ID: 4, Name: "Jake", Weight: 180, Height: 79, Reach: 74.5, Age: 37}
}
