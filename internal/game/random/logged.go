package random

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DrawObserver receives the latency and outcome of every draw.
type DrawObserver interface {
	RandomDraw(elapsed time.Duration, err error)
}

// LoggedSource wraps a Source and logs every draw: values at debug level,
// failures at warn level.
type LoggedSource struct {
	src      Source
	logger   *zap.Logger
	observer DrawObserver
}

// NewLoggedSource creates a LoggedSource around src. observer may be nil.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger, observer DrawObserver) *LoggedSource {
	return &LoggedSource{src: src, logger: logger, observer: observer}
}

// NextRandom draws from the wrapped source and logs the result.
//
// Postcondition: Returns exactly what the wrapped source returned.
func (s *LoggedSource) NextRandom(ctx context.Context) (float64, error) {
	start := time.Now()
	v, err := s.src.NextRandom(ctx)
	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.RandomDraw(elapsed, err)
	}
	if err != nil {
		s.logger.Warn("random draw failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		return 0, err
	}
	s.logger.Debug("random draw",
		zap.Float64("value", v),
		zap.Duration("elapsed", elapsed),
	)
	return v, nil
}
