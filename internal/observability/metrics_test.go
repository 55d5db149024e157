package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FightCounters(t *testing.T) {
	m := NewMetrics()
	m.FightResolved(0.73)
	m.FightResolved(0.5)
	m.FightFailed(ReasonRandom)
	m.FightFailed(ReasonStats)
	m.FightFailed(ReasonStats)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fights))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fightErrors.WithLabelValues(ReasonRandom)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fightErrors.WithLabelValues(ReasonStats)))
}

func TestMetrics_RandomDraw(t *testing.T) {
	m := NewMetrics()
	m.RandomDraw(10*time.Millisecond, nil)
	m.RandomDraw(5*time.Second, errors.New("timeout"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.randomErrors))
}

func TestMetrics_DependencyUp(t *testing.T) {
	m := NewMetrics()
	m.DependencyUp("postgres", true)
	m.DependencyUp("random", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dependencyUp.WithLabelValues("postgres")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dependencyUp.WithLabelValues("random")))
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FightResolved(0.9)
		m.FightFailed(ReasonOther)
		m.RandomDraw(time.Second, nil)
		m.LeaderboardPolled(3, 10)
		m.DependencyUp("postgres", true)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.FightResolved(0.99)
	m.LeaderboardPolled(4, 12)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "boxing_fights_total 1")
	assert.Contains(t, string(body), "boxing_boxers 4")
	assert.Contains(t, string(body), "boxing_leaderboard_fights 12")
}
