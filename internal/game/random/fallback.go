package random

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// FallbackSource draws from a primary source and, only when the primary is
// unavailable, from a secondary one. Malformed responses are not masked.
type FallbackSource struct {
	primary   Source
	secondary Source
	logger    *zap.Logger
}

// NewFallbackSource creates a FallbackSource.
//
// Precondition: primary, secondary and logger must be non-nil.
func NewFallbackSource(primary, secondary Source, logger *zap.Logger) *FallbackSource {
	return &FallbackSource{primary: primary, secondary: secondary, logger: logger}
}

// NextRandom returns the primary's value, or the secondary's when the primary
// fails with ErrSourceUnavailable and ctx is still live.
func (s *FallbackSource) NextRandom(ctx context.Context) (float64, error) {
	v, err := s.primary.NextRandom(ctx)
	if err == nil || !errors.Is(err, ErrSourceUnavailable) || ctx.Err() != nil {
		return v, err
	}
	s.logger.Info("primary random source unavailable, using fallback", zap.Error(err))
	return s.secondary.NextRandom(ctx)
}
