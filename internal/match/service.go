// Package match owns the single ring and mediates every operation on it.
// It loads boxers from the repository, admits them, resolves fights and
// reports results to logs and metrics.
package match

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/game/random"
	"github.com/cory-johannsen/boxing/internal/game/ring"
	"github.com/cory-johannsen/boxing/internal/observability"
)

// ErrAlreadyInRing is returned when a boxer is admitted twice.
var ErrAlreadyInRing = errors.New("boxer is already in the ring")

// ErrBoxerInRing is returned when deleting a boxer who is in the ring.
var ErrBoxerInRing = errors.New("boxer is in the ring")

// Repository is the boxer store the service depends on.
type Repository interface {
	ring.StatsUpdater
	Create(ctx context.Context, b *boxer.Boxer) (*boxer.Boxer, error)
	GetByID(ctx context.Context, id int64) (*boxer.Boxer, error)
	GetByName(ctx context.Context, name string) (*boxer.Boxer, error)
	Delete(ctx context.Context, id int64) error
	Leaderboard(ctx context.Context, key boxer.SortKey) ([]boxer.Standing, error)
}

// Service serializes all access to one Ring.
//
// Service is safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	ring    *ring.Ring
	logger  *zap.Logger
	metrics *observability.Metrics

	// last holds the bout recorded by the service's own hook during Fight.
	last *ring.Bout
}

// NewService creates a Service with an empty ring. A LogHook is always
// installed ahead of hooks. metrics may be nil.
//
// Precondition: repo, src and logger must be non-nil.
// Postcondition: Returns a Service whose ring is Empty.
func NewService(repo Repository, src random.Source, logger *zap.Logger, metrics *observability.Metrics, hooks ...ring.Hook) *Service {
	s := &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
	all := append([]ring.Hook{ring.NewLogHook(logger), boutRecorder{s}}, hooks...)
	s.ring = ring.NewRing(src, repo, all...)
	return s
}

// CreateBoxer validates and stores a new boxer.
//
// Postcondition: Returns the stored boxer, an error wrapping
// boxer.ErrInvalidArgument, or the repository's error.
func (s *Service) CreateBoxer(ctx context.Context, name string, weight, height, reach float64, age int) (*boxer.Boxer, error) {
	b, err := boxer.New(name, weight, height, reach, age)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("creating boxer %q: %w", b.Name, err)
	}
	s.logger.Info("boxer created",
		zap.Int64("boxer_id", created.ID),
		zap.String("name", created.Name),
		zap.String("weight_class", string(created.WeightClass)),
	)
	return created, nil
}

// GetBoxer returns the stored boxer with the given ID.
func (s *Service) GetBoxer(ctx context.Context, id int64) (*boxer.Boxer, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBoxerByName returns the stored boxer with the given name.
func (s *Service) GetBoxerByName(ctx context.Context, name string) (*boxer.Boxer, error) {
	return s.repo.GetByName(ctx, name)
}

// DeleteBoxer removes a boxer who is not currently in the ring.
//
// Postcondition: Returns ErrBoxerInRing, the repository's error, or nil.
func (s *Service) DeleteBoxer(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inRing(id) {
		return fmt.Errorf("%w: boxer %d", ErrBoxerInRing, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting boxer %d: %w", id, err)
	}
	s.logger.Info("boxer deleted", zap.Int64("boxer_id", id))
	return nil
}

// EnterRing loads the boxer with the given ID and admits it. The lookup and
// the admission happen under one lock so a concurrent DeleteBoxer cannot
// remove the boxer in between.
//
// Postcondition: Returns the admitted boxer, or the repository's error,
// ErrAlreadyInRing or ring.ErrCapacityExceeded with the ring unchanged.
func (s *Service) EnterRing(ctx context.Context, id int64) (*boxer.Boxer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading boxer %d: %w", id, err)
	}
	if err := s.admit(b); err != nil {
		return nil, err
	}
	return b, nil
}

// EnterRingByName loads the boxer with the given name and admits it.
func (s *Service) EnterRingByName(ctx context.Context, name string) (*boxer.Boxer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading boxer %q: %w", name, err)
	}
	if err := s.admit(b); err != nil {
		return nil, err
	}
	return b, nil
}

// admit puts b in the ring.
// Precondition: s.mu is held.
func (s *Service) admit(b *boxer.Boxer) error {
	if s.inRing(b.ID) {
		return fmt.Errorf("%w: %s", ErrAlreadyInRing, b.Name)
	}
	return s.ring.Admit(b)
}

// inRing reports whether a boxer with id is in the ring.
// Precondition: s.mu is held.
func (s *Service) inRing(id int64) bool {
	for _, c := range s.ring.Contestants() {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Contestants returns the boxers in the ring in admission order.
func (s *Service) Contestants() []*boxer.Boxer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Contestants()
}

// RingState returns the ring's current state.
func (s *Service) RingState() ring.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.State()
}

// ClearRing empties the ring.
func (s *Service) ClearRing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.Clear()
}

// Fight resolves a bout between the two contestants.
//
// Precondition: two boxers have been admitted.
// Postcondition: On success returns the resolved bout and the ring is Empty.
// On error the ring is unchanged and the error is one of
// ring.ErrInsufficientContestants, a random-source error, or a *ring.StatsError.
func (s *Service) Fight(ctx context.Context) (ring.Bout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = nil
	if _, err := s.ring.Fight(ctx); err != nil {
		reason := failureReason(err)
		s.metrics.FightFailed(reason)
		fields := []zap.Field{zap.String("reason", reason), zap.Error(err)}
		var se *ring.StatsError
		if errors.As(err, &se) && se.Partial() {
			fields = append(fields, zap.Int("applied", len(se.Applied)))
		}
		s.logger.Warn("fight failed", fields...)
		return ring.Bout{}, err
	}

	bout := *s.last
	s.metrics.FightResolved(bout.Probability)
	return bout, nil
}

// Leaderboard returns the ranked boxers with at least one fight.
//
// Precondition: sortBy must be "wins" or "win_pct".
// Postcondition: Returns the standings or an error wrapping boxer.ErrInvalidArgument.
func (s *Service) Leaderboard(ctx context.Context, sortBy string) ([]boxer.Standing, error) {
	key, err := boxer.ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Leaderboard(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	fights := 0
	for _, r := range rows {
		fights += r.Fights
	}
	s.metrics.LeaderboardPolled(len(rows), fights)
	return rows, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ring.ErrInsufficientContestants):
		return observability.ReasonInsufficient
	case errors.Is(err, ring.ErrStatsUpdate):
		return observability.ReasonStats
	case errors.Is(err, random.ErrSourceUnavailable), errors.Is(err, random.ErrMalformedResponse):
		return observability.ReasonRandom
	default:
		return observability.ReasonOther
	}
}

// boutRecorder captures the resolved bout for Fight's return value.
type boutRecorder struct{ s *Service }

func (boutRecorder) BoxerEntered(*boxer.Boxer, int) {}
func (boutRecorder) RingCleared(int)                {}
func (r boutRecorder) BoutResolved(b ring.Bout)     { r.s.last = &b }
