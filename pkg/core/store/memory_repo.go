package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"offer_analyzer/pkg/models"
)

// MemoryRepo is an in-process repository for tests and throwaway sessions
type MemoryRepo struct {
	mu        sync.RWMutex
	scenarios map[string]models.Scenario
}

// NewMemoryRepo creates an empty repository
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{scenarios: make(map[string]models.Scenario)}
}

// Save stores a copy of the scenario
func (r *MemoryRepo) Save(ctx context.Context, s *models.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Stamp(time.Now())
	r.scenarios[s.ID] = *s
	return nil
}

// Get returns a copy of the stored scenario
func (r *MemoryRepo) Get(ctx context.Context, id string) (*models.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// List returns every scenario, most recently updated first
func (r *MemoryRepo) List(ctx context.Context) ([]models.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Scenario, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a scenario
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenarios[id]; !ok {
		return ErrNotFound
	}
	delete(r.scenarios, id)
	return nil
}

// Close is a no-op
func (r *MemoryRepo) Close() error {
	return nil
}
