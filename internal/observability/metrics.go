package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "boxing"

	// Fight error reasons used as the "reason" label of FightErrors.
	ReasonInsufficient = "insufficient_contestants"
	ReasonRandom       = "random_source"
	ReasonStats        = "stats_update"
	ReasonOther        = "other"
)

// Metrics holds the Prometheus collectors for fights, random draws and
// dependency health. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	fights          prometheus.Counter
	fightErrors     *prometheus.CounterVec
	winProbability  prometheus.Histogram
	randomDraw      prometheus.Histogram
	randomErrors    prometheus.Counter
	boxers          prometheus.Gauge
	dependencyUp    *prometheus.GaugeVec
	leaderboardSize prometheus.Gauge
}

// NewMetrics registers all collectors on a fresh registry.
//
// Postcondition: Returns a non-nil Metrics whose Handler serves only these collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewMetricsWith(reg, reg)
}

// NewMetricsWith registers all collectors on reg and gathers from g.
//
// Precondition: reg must not already hold collectors with the same names.
// Postcondition: Returns a non-nil Metrics.
func NewMetricsWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		fights: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fights_total",
			Help:      "Total number of fights resolved with both stat updates applied.",
		}),
		fightErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fight_errors_total",
			Help:      "Total number of fights that failed, by reason.",
		}, []string{"reason"}),
		winProbability: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "win_probability",
			Help:      "Logistic win probability of the first contestant per resolved fight.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		}),
		randomDraw: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "random_draw_seconds",
			Help:      "Latency of random-source draws in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		randomErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "random_draw_errors_total",
			Help:      "Total number of failed random-source draws.",
		}),
		boxers: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boxers",
			Help:      "Number of boxers seen on the last leaderboard poll with at least one fight.",
		}),
		dependencyUp: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_up",
			Help:      "1 when the dependency answered the last health probe, else 0.",
		}, []string{"dependency"}),
		leaderboardSize: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_fights",
			Help:      "Sum of fights across the leaderboard on the last poll.",
		}),
	}
}

// FightResolved records a completed fight and its win probability.
func (m *Metrics) FightResolved(probability float64) {
	if m == nil {
		return
	}
	m.fights.Inc()
	m.winProbability.Observe(probability)
}

// FightFailed records a failed fight under reason.
func (m *Metrics) FightFailed(reason string) {
	if m == nil {
		return
	}
	m.fightErrors.WithLabelValues(reason).Inc()
}

// RandomDraw records the latency of one draw and whether it failed.
func (m *Metrics) RandomDraw(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.randomDraw.Observe(elapsed.Seconds())
	if err != nil {
		m.randomErrors.Inc()
	}
}

// LeaderboardPolled records the size of the ranked leaderboard.
func (m *Metrics) LeaderboardPolled(boxers, fights int) {
	if m == nil {
		return
	}
	m.boxers.Set(float64(boxers))
	m.leaderboardSize.Set(float64(fights))
}

// DependencyUp records the result of a health probe against dependency.
func (m *Metrics) DependencyUp(dependency string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.dependencyUp.WithLabelValues(dependency).Set(v)
}

// Handler returns an http.Handler exposing the gathered metrics.
//
// Precondition: m must be non-nil.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
