package random_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/config"
	"github.com/cory-johannsen/boxing/internal/game/random"
)

func TestFromConfig_DrawsFromURL(t *testing.T) {
	srv := serve(t, http.StatusOK, "0.42\n")
	rec := &drawRecorder{}
	src := random.FromConfig(config.RandomConfig{URL: srv.URL, Timeout: time.Second}, zap.NewNop(), rec)

	v, err := src.NextRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.42, v)
	assert.Equal(t, 1, rec.draws)
}

func TestFromConfig_FallbackOnUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	strict := random.FromConfig(config.RandomConfig{URL: srv.URL, Timeout: time.Second}, zap.NewNop(), nil)
	_, err := strict.NextRandom(context.Background())
	assert.ErrorIs(t, err, random.ErrSourceUnavailable)

	lenient := random.FromConfig(config.RandomConfig{URL: srv.URL, Timeout: time.Second, Fallback: true}, zap.NewNop(), nil)
	v, err := lenient.NextRandom(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestProbe_IgnoresFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	cfg := config.RandomConfig{URL: srv.URL, Timeout: time.Second, Fallback: true}

	_, err := random.FromConfig(cfg, zap.NewNop(), nil).NextRandom(context.Background())
	require.NoError(t, err, "fights still draw through the fallback")
	assert.ErrorIs(t, random.Probe(cfg)(context.Background()), random.ErrSourceUnavailable)
}

func TestProbe_Healthy(t *testing.T) {
	srv := serve(t, http.StatusOK, "0.13")
	assert.NoError(t, random.Probe(config.RandomConfig{URL: srv.URL, Timeout: time.Second})(context.Background()))
}
