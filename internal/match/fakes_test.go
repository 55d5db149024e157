package match_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

var errNotFound = errors.New("boxer not found")

// memRepo is an in-memory Repository.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	boxers  map[int64]*boxer.Boxer
	updates []string
	failOn  int
	err     error

	// onGet, when set, runs at the start of every lookup outside r.mu.
	onGet func()
}

func newMemRepo() *memRepo {
	return &memRepo{boxers: make(map[int64]*boxer.Boxer)}
}

func (r *memRepo) Create(_ context.Context, b *boxer.Boxer) (*boxer.Boxer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.boxers {
		if strings.EqualFold(existing.Name, b.Name) {
			return nil, fmt.Errorf("duplicate %s", b.Name)
		}
	}
	r.nextID++
	out := *b
	out.ID = r.nextID
	r.boxers[out.ID] = &out
	cp := out
	return &cp, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*boxer.Boxer, error) {
	if r.onGet != nil {
		r.onGet()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boxers[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) GetByName(_ context.Context, name string) (*boxer.Boxer, error) {
	if r.onGet != nil {
		r.onGet()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.boxers {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boxers[id]; !ok {
		return errNotFound
	}
	delete(r.boxers, id)
	return nil
}

func (r *memRepo) UpdateStats(_ context.Context, id int64, result boxer.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, fmt.Sprintf("%d:%s", id, result))
	if r.failOn == len(r.updates) {
		return r.err
	}
	b, ok := r.boxers[id]
	if !ok {
		return errNotFound
	}
	return b.Record(result)
}

func (r *memRepo) Leaderboard(_ context.Context, key boxer.SortKey) ([]boxer.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*boxer.Boxer, 0, len(r.boxers))
	for _, b := range r.boxers {
		all = append(all, b)
	}
	return boxer.Rank(all, key), nil
}
