package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/boxing/internal/observability"
)

// Dependency is an external system the daemon needs: the database or the
// random source. Probe returns nil when the dependency is usable.
type Dependency struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthChecker probes every dependency on an interval and publishes the
// results on a gRPC health server and as metrics. Each dependency is exposed
// as its own health service name; the empty service name is SERVING only when
// every dependency is up.
type HealthChecker struct {
	health   *health.Server
	deps     []Dependency
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics

	stopOnce sync.Once
	stop     chan struct{}
}

// ProbeTimeout is the bound placed on each probe for a checker running every interval.
func ProbeTimeout(interval time.Duration) time.Duration {
	return interval / 2
}

// NewHealthChecker creates a HealthChecker. metrics may be nil.
//
// Precondition: hs and logger must be non-nil; interval > 0.
// Postcondition: Every dependency starts NOT_SERVING until the first Check.
func NewHealthChecker(hs *health.Server, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics, deps ...Dependency) *HealthChecker {
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, d := range deps {
		hs.SetServingStatus(d.Name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return &HealthChecker{
		health:   hs,
		deps:     deps,
		interval: interval,
		timeout:  ProbeTimeout(interval),
		logger:   logger,
		metrics:  metrics,
		stop:     make(chan struct{}),
	}
}

// Check probes every dependency once, each bounded by half the interval.
//
// Postcondition: Health statuses and metrics reflect this round; returns
// whether every dependency is up.
func (h *HealthChecker) Check(ctx context.Context) bool {
	all := true
	for _, d := range h.deps {
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		start := time.Now()
		err := d.Probe(pctx)
		cancel()

		up := err == nil
		all = all && up
		h.metrics.DependencyUp(d.Name, up)
		status := healthpb.HealthCheckResponse_SERVING
		if !up {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			h.logger.Warn("dependency down",
				zap.String("dependency", d.Name),
				zap.Error(err),
				zap.Duration("elapsed", time.Since(start)),
			)
		} else {
			h.logger.Debug("dependency up",
				zap.String("dependency", d.Name),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		h.health.SetServingStatus(d.Name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !all {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", overall)
	return all
}

// Start checks immediately, then on every interval until Stop.
func (h *HealthChecker) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-h.stop
		cancel()
	}()

	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stop:
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Stop ends the probe loop and marks every service NOT_SERVING.
func (h *HealthChecker) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		h.health.Shutdown()
	})
}
