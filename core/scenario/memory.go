package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps scenarios in memory.
type MemoryStore struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenarios: make(map[string]Scenario)}
}

func (s *MemoryStore) Save(_ context.Context, sc Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.Rows = append([]Row(nil), sc.Rows...)
	s.scenarios[sc.Name] = sc
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return sc, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.scenarios, n)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
