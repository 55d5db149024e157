// Package random provides the random-number collaborator used to resolve
// fights: an HTTP-backed source, a local crypto/rand source, and wrappers for
// logging and fallback.
package random

import (
	"context"
	"errors"
)

// ErrSourceUnavailable is returned when the source cannot be reached, times
// out, or answers with a non-success status.
var ErrSourceUnavailable = errors.New("random source unavailable")

// ErrMalformedResponse is returned when the source answers with something
// that is not a decimal in [0, 1).
var ErrMalformedResponse = errors.New("malformed random source response")

// Source supplies uniformly distributed values in [0, 1).
type Source interface {
	// NextRandom returns the next value.
	//
	// Postcondition: On success 0 <= v < 1.
	NextRandom(ctx context.Context) (float64, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (float64, error)

// NextRandom calls f(ctx).
func (f SourceFunc) NextRandom(ctx context.Context) (float64, error) { return f(ctx) }
