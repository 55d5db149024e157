package random

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: Values are uniformly distributed over the 2^53 multiples of 2^-53 in [0, 1).
type cryptoSource struct{}

// NewCryptoSource returns a local Source backed by crypto/rand.
//
// Postcondition: Every value returned by NextRandom is in [0, 1).
func NewCryptoSource() Source {
	return cryptoSource{}
}

// NextRandom returns a cryptographically secure value in [0, 1).
func (cryptoSource) NextRandom(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("%w: crypto/rand: %v", ErrSourceUnavailable, err)
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53), nil
}
