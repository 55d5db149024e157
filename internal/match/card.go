package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/game/ring"
	"github.com/cory-johannsen/boxing/internal/roster"
)

// CardReport summarises one pass over a fight card.
type CardReport struct {
	Fought int
	Failed int
}

// CardRunner fights the bouts of a card in order, one per interval.
//
// Precondition: the runner is the only caller admitting boxers to svc's ring.
type CardRunner struct {
	svc      *Service
	bouts    []roster.Pairing
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewCardRunner creates a CardRunner over card.
//
// Precondition: svc, card and logger must be non-nil; interval >= 0.
func NewCardRunner(svc *Service, card *roster.Card, interval time.Duration, logger *zap.Logger) *CardRunner {
	return &CardRunner{
		svc:      svc,
		bouts:    card.Bouts,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// RunBout admits both boxers of p in order and fights.
//
// Postcondition: The ring is Empty on return. A bout that fails after
// admission is abandoned and the ring cleared.
func (c *CardRunner) RunBout(ctx context.Context, p roster.Pairing) (ring.Bout, error) {
	bout, err := c.fight(ctx, p)
	if err != nil {
		c.svc.ClearRing()
		return ring.Bout{}, fmt.Errorf("bout %s: %w", p, err)
	}
	return bout, nil
}

func (c *CardRunner) fight(ctx context.Context, p roster.Pairing) (ring.Bout, error) {
	if _, err := c.svc.EnterRingByName(ctx, p.First); err != nil {
		return ring.Bout{}, err
	}
	if _, err := c.svc.EnterRingByName(ctx, p.Second); err != nil {
		return ring.Bout{}, err
	}
	return c.svc.Fight(ctx)
}

// Run fights every bout of the card, waiting interval between bouts. A
// failed bout is logged and skipped.
//
// Postcondition: Returns when the card is done, ctx is cancelled or Stop is called.
func (c *CardRunner) Run(ctx context.Context) CardReport {
	var report CardReport
	start := time.Now()
	for i, p := range c.bouts {
		if i > 0 && !c.wait(ctx) {
			break
		}
		bout, err := c.RunBout(ctx, p)
		if err != nil {
			report.Failed++
			c.logger.Warn("card bout failed", zap.Int("bout", i+1), zap.Error(err))
			continue
		}
		report.Fought++
		c.logger.Info("card bout fought",
			zap.Int("bout", i+1),
			zap.String("winner", bout.Winner.Name),
			zap.String("loser", bout.Loser.Name),
		)
	}
	c.logger.Info("card finished",
		zap.Int("fought", report.Fought),
		zap.Int("failed", report.Failed),
		zap.Int("scheduled", len(c.bouts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report
}

func (c *CardRunner) wait(ctx context.Context) bool {
	t := time.NewTimer(c.interval)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.stop:
		return false
	}
}

// Start runs the card, then blocks until Stop.
func (c *CardRunner) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-c.stop
		cancel()
	}()

	c.Run(ctx)
	<-c.stop
	return nil
}

// Stop interrupts the card between bouts and releases Start.
func (c *CardRunner) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
