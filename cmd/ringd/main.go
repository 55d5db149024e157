// Package main provides ringd, the long-running daemon that fights the
// configured card and publishes the health of the boxing dependencies over
// gRPC and metrics over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/boxing/internal/config"
	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/game/ring"
	"github.com/cory-johannsen/boxing/internal/match"
	"github.com/cory-johannsen/boxing/internal/observability"
	"github.com/cory-johannsen/boxing/internal/roster"
	"github.com/cory-johannsen/boxing/internal/scripting"
	"github.com/cory-johannsen/boxing/internal/server"
	"github.com/cory-johannsen/boxing/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "ringd")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetricsWith(reg, reg)

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	var hooks []ring.Hook
	if cfg.Ring.ScriptDir != "" {
		engine, err := scripting.NewEngine(cfg.Ring.ScriptDir, cfg.Ring.InstructionLimit, logger)
		if err != nil {
			logger.Fatal("loading ring scripts", zap.Error(err))
		}
		defer engine.Close()
		hooks = append(hooks, scripting.NewRingHooks(engine))
	}

	src := random.FromConfig(cfg.Random, logger, metrics)
	svc := match.NewService(postgres.NewBoxerRepository(pool.DB()), src, logger, metrics, hooks...)

	probeTimeout := server.ProbeTimeout(cfg.Daemon.HealthInterval)
	hs := health.NewServer()
	checker := server.NewHealthChecker(hs, cfg.Daemon.HealthInterval, logger, metrics,
		server.Dependency{Name: "postgres", Probe: func(ctx context.Context) error {
			return pool.Health(ctx, probeTimeout)
		}},
		server.Dependency{Name: "random", Probe: random.Probe(cfg.Random)},
		server.Dependency{Name: "leaderboard", Probe: func(ctx context.Context) error {
			_, err := svc.Leaderboard(ctx, string(boxer.SortByWins))
			return err
		}},
	)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("health-checker", checker)
	lifecycle.Add("grpc", server.GRPCService(cfg.Daemon.GRPCAddr(), grpcServer))
	lifecycle.Add("metrics", server.HTTPService(cfg.Daemon.MetricsAddr(), mux))
	if cfg.Daemon.Card != "" {
		card, err := roster.LoadCardFile(cfg.Daemon.Card)
		if err != nil {
			logger.Fatal("loading fight card", zap.Error(err))
		}
		logger.Info("fight card loaded",
			zap.String("card", cfg.Daemon.Card),
			zap.Int("bouts", len(card.Bouts)),
			zap.Duration("bout_interval", cfg.Daemon.BoutInterval),
		)
		lifecycle.Add("card", match.NewCardRunner(svc, card, cfg.Daemon.BoutInterval, logger))
	}

	logger.Info("ringd initialized",
		zap.String("grpc_addr", cfg.Daemon.GRPCAddr()),
		zap.String("metrics_addr", cfg.Daemon.MetricsAddr()),
		zap.Duration("health_interval", cfg.Daemon.HealthInterval),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("ringd stopped", zap.Error(err))
	}
}
