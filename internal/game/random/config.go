package random

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/config"
)

// FromConfig assembles the production source: an HTTPSource on cfg.URL,
// backed by a crypto source when cfg.Fallback is set, wrapped in a
// LoggedSource reporting to obs.
//
// Precondition: cfg must be valid; logger must be non-nil; obs may be nil.
// Postcondition: Returns a non-nil Source.
func FromConfig(cfg config.RandomConfig, logger *zap.Logger, obs DrawObserver) Source {
	var src Source = NewHTTPSource(cfg.URL, cfg.Timeout)
	if cfg.Fallback {
		src = NewFallbackSource(src, NewCryptoSource(), logger)
	}
	return NewLoggedSource(src, logger, obs)
}

// Probe returns a health check that draws straight from cfg.URL. It ignores
// cfg.Fallback so an unreachable endpoint is reported even when fights would
// fall back to the local source.
//
// Precondition: cfg must be valid.
func Probe(cfg config.RandomConfig) func(ctx context.Context) error {
	src := NewHTTPSource(cfg.URL, cfg.Timeout)
	return func(ctx context.Context) error {
		_, err := src.NextRandom(ctx)
		return err
	}
}
