// Package main provides the boxing CLI: boxer management, leaderboard and
// single fights against the configured database and random source.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/config"
	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/game/ring"
	"github.com/cory-johannsen/boxing/internal/match"
	"github.com/cory-johannsen/boxing/internal/observability"
	"github.com/cory-johannsen/boxing/internal/scripting"
	"github.com/cory-johannsen/boxing/internal/storage/postgres"
)

const usage = `usage: boxing [-config path] <command> [flags]

commands:
  create       -name NAME -weight W -height H -reach R -age A
  get          -id ID | -name NAME
  delete       -id ID
  leaderboard  [-sort wins|win_pct]
  fight        -first NAME -second NAME
`

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "boxing")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	var hooks []ring.Hook
	if cfg.Ring.ScriptDir != "" {
		engine, err := scripting.NewEngine(cfg.Ring.ScriptDir, cfg.Ring.InstructionLimit, logger)
		if err != nil {
			log.Fatalf("loading ring scripts: %v", err)
		}
		defer engine.Close()
		hooks = append(hooks, scripting.NewRingHooks(engine))
	}

	svc := match.NewService(
		postgres.NewBoxerRepository(pool.DB()),
		random.FromConfig(cfg.Random, logger, nil),
		logger,
		nil,
		hooks...,
	)

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, svc, cmd, args, os.Stdout); err != nil {
		logger.Debug("command failed", zap.String("command", cmd), zap.Error(err))
		log.Fatalf("%s: %v", cmd, err)
	}
	logger.Debug("command complete",
		zap.String("command", cmd),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func run(ctx context.Context, svc *match.Service, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "create":
		return runCreate(ctx, svc, args, out)
	case "get":
		return runGet(ctx, svc, args, out)
	case "delete":
		return runDelete(ctx, svc, args, out)
	case "leaderboard":
		return runLeaderboard(ctx, svc, args, out)
	case "fight":
		return runFight(ctx, svc, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func runCreate(ctx context.Context, svc *match.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	name := fs.String("name", "", "boxer name")
	weight := fs.Float64("weight", 0, "weight in pounds (>= 125)")
	height := fs.Float64("height", 0, "height in inches")
	reach := fs.Float64("reach", 0, "reach in inches")
	age := fs.Int("age", 0, "age in years (18-40)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, err := svc.CreateBoxer(ctx, *name, *weight, *height, *reach, *age)
	if err != nil {
		return err
	}
	printBoxer(out, b)
	return nil
}

func runGet(ctx context.Context, svc *match.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	id := fs.Int64("id", 0, "boxer ID")
	name := fs.String("name", "", "boxer name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		b   *boxer.Boxer
		err error
	)
	switch {
	case *id > 0:
		b, err = svc.GetBoxer(ctx, *id)
	case *name != "":
		b, err = svc.GetBoxerByName(ctx, *name)
	default:
		return errors.New("one of -id or -name is required")
	}
	if err != nil {
		return err
	}
	printBoxer(out, b)
	return nil
}

func runDelete(ctx context.Context, svc *match.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int64("id", 0, "boxer ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := svc.DeleteBoxer(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted boxer #%d\n", *id)
	return nil
}

func runLeaderboard(ctx context.Context, svc *match.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	sortBy := fs.String("sort", string(boxer.SortByWins), "sort key: wins or win_pct")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := svc.Leaderboard(ctx, *sortBy)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tCLASS\tFIGHTS\tWINS\tWIN%")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%d\t%.1f\n",
			i+1, r.ID, r.Name, r.WeightClass, r.Fights, r.Wins, r.WinPct)
	}
	return tw.Flush()
}

func runFight(ctx context.Context, svc *match.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fight", flag.ContinueOnError)
	first := fs.String("first", "", "name of the boxer admitted first")
	second := fs.String("second", "", "name of the boxer admitted second")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range []string{*first, *second} {
		if _, err := svc.EnterRingByName(ctx, name); err != nil {
			return err
		}
	}
	bout, err := svc.Fight(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s defeats %s (p=%.4f draw=%.4f) bout %s\n",
		bout.Winner.Name, bout.Loser.Name, bout.Probability, bout.Draw, bout.ID)
	return nil
}

func printBoxer(out io.Writer, b *boxer.Boxer) {
	fmt.Fprintf(out, "#%d %s  %s  weight=%g height=%g reach=%g age=%d  fights=%d wins=%d (%.1f%%)\n",
		b.ID, b.Name, b.WeightClass, b.Weight, b.Height, b.Reach, b.Age, b.Fights, b.Wins, b.WinPct())
}
