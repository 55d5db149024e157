package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/boxing/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)

	assert.NoError(t, pc.Pool.Health(context.Background(), 2*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, pc.Pool.Health(ctx, 2*time.Second), "a cancelled context fails the check")
}
