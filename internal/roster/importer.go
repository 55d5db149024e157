package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// Creator stores a new boxer.
type Creator interface {
	CreateBoxer(ctx context.Context, name string, weight, height, reach float64, age int) (*boxer.Boxer, error)
}

// Report summarises one import run.
type Report struct {
	Created []*boxer.Boxer
	Skipped []string
	Elapsed time.Duration
}

// Importer writes roster entries through a Creator.
type Importer struct {
	creator Creator
	logger  *zap.Logger
	// exists, when non-nil, marks creation errors that mean "already stored".
	exists error
}

// NewImporter constructs an Importer.
//
// Precondition: creator and logger must be non-nil.
func NewImporter(creator Creator, logger *zap.Logger) *Importer {
	return &Importer{creator: creator, logger: logger}
}

// SkipExisting makes Import skip entries whose creation fails with an error
// matching sentinel instead of aborting.
func (imp *Importer) SkipExisting(sentinel error) *Importer {
	imp.exists = sentinel
	return imp
}

// Import creates every entry of r in order.
//
// Precondition: r must come from LoadFromBytes or LoadFile.
// Postcondition: Returns a Report of created and skipped boxers. On error the
// Report covers the entries processed before the failing one.
func (imp *Importer) Import(ctx context.Context, r *Roster) (Report, error) {
	start := time.Now()
	var rep Report
	for _, e := range r.Boxers {
		if err := ctx.Err(); err != nil {
			rep.Elapsed = time.Since(start)
			return rep, err
		}
		b, err := imp.creator.CreateBoxer(ctx, e.Name, e.Weight, e.Height, e.Reach, e.Age)
		if err != nil {
			if imp.exists != nil && errors.Is(err, imp.exists) {
				imp.logger.Info("roster entry already stored", zap.String("name", e.Name))
				rep.Skipped = append(rep.Skipped, e.Name)
				continue
			}
			rep.Elapsed = time.Since(start)
			return rep, fmt.Errorf("importing %q: %w", e.Name, err)
		}
		rep.Created = append(rep.Created, b)
	}
	rep.Elapsed = time.Since(start)
	imp.logger.Info("roster imported",
		zap.Int("created", len(rep.Created)),
		zap.Int("skipped", len(rep.Skipped)),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}
