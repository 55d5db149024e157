// Package main provides a CLI tool that loads a YAML roster into the boxer table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/boxing/internal/config"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/match"
	"github.com/cory-johannsen/boxing/internal/observability"
	"github.com/cory-johannsen/boxing/internal/roster"
	"github.com/cory-johannsen/boxing/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rosterPath := flag.String("roster", "", "path to roster YAML file (required)")
	skipExisting := flag.Bool("skip-existing", false, "skip boxers whose name is already stored")
	dryRun := flag.Bool("dry-run", false, "validate the roster without writing")
	flag.Parse()

	if *rosterPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	r, err := roster.LoadFile(*rosterPath)
	if err != nil {
		log.Fatalf("loading roster: %v", err)
	}
	if *dryRun {
		fmt.Fprintf(os.Stdout, "roster ok: %d boxer(s) [%s]\n", len(r.Boxers), time.Since(start))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "import-roster")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	// Imports never fight, so the crypto source stands in for the remote one.
	svc := match.NewService(postgres.NewBoxerRepository(pool.DB()), random.NewCryptoSource(), logger, nil)

	imp := roster.NewImporter(svc, logger)
	if *skipExisting {
		imp.SkipExisting(postgres.ErrBoxerExists)
	}
	rep, err := imp.Import(ctx, r)
	if err != nil {
		log.Fatalf("importing roster (%d created before failure): %v", len(rep.Created), err)
	}

	for _, b := range rep.Created {
		fmt.Fprintf(os.Stdout, "created #%d %s (%s)\n", b.ID, b.Name, b.WeightClass)
	}
	for _, name := range rep.Skipped {
		fmt.Fprintf(os.Stdout, "skipped %s (exists)\n", name)
	}
	fmt.Fprintf(os.Stdout, "imported %d, skipped %d [%s]\n", len(rep.Created), len(rep.Skipped), time.Since(start))
}
