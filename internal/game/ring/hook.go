package ring

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// Hook observes ring events. Hooks run synchronously on the caller's
// goroutine and cannot fail the operation that triggered them.
type Hook interface {
	// BoxerEntered fires after b is admitted into corner 1 or 2.
	BoxerEntered(b *boxer.Boxer, corner int)
	// BoutResolved fires after a fight's stats are recorded and the ring is cleared.
	BoutResolved(b Bout)
	// RingCleared fires when a non-empty ring is emptied.
	RingCleared(removed int)
}

// LogHook emits one structured log entry per ring event.
type LogHook struct {
	logger *zap.Logger
}

// NewLogHook creates a LogHook.
//
// Precondition: logger must be non-nil.
func NewLogHook(logger *zap.Logger) *LogHook {
	return &LogHook{logger: logger}
}

// BoxerEntered logs the admission at info level.
func (h *LogHook) BoxerEntered(b *boxer.Boxer, corner int) {
	h.logger.Info("boxer entered ring",
		zap.Int64("boxer_id", b.ID),
		zap.String("name", b.Name),
		zap.Int("corner", corner),
	)
}

// BoutResolved logs the bout at info level.
func (h *LogHook) BoutResolved(b Bout) {
	h.logger.Info("bout resolved",
		zap.String("bout_id", b.ID.String()),
		zap.String("winner", b.Winner.Name),
		zap.String("loser", b.Loser.Name),
		zap.Float64s("skills", b.Skills[:]),
		zap.Float64("delta", b.Delta),
		zap.Float64("probability", b.Probability),
		zap.Float64("draw", b.Draw),
	)
}

// RingCleared logs at debug level.
func (h *LogHook) RingCleared(removed int) {
	h.logger.Debug("ring cleared", zap.Int("removed", removed))
}
