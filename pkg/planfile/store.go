package planfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/kilianp07/workplan/core/scenario"
)

// ScenarioStore keeps scenarios in the scenarios section of a plan document.
// Other sections of the document are preserved on every write.
type ScenarioStore struct {
	path string
	mu   sync.Mutex
}

// NewScenarioStore uses the document at path, which is created on first save.
func NewScenarioStore(path string) *ScenarioStore {
	return &ScenarioStore{path: path}
}

func (s *ScenarioStore) load() (Document, error) {
	doc, err := Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	return doc, err
}

func (s *ScenarioStore) Save(_ context.Context, sc scenario.Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Scenarios == nil {
		doc.Scenarios = make(map[string]ScenarioRecord)
	}
	doc.Scenarios[sc.Name] = FromScenario(sc)
	return Write(s.path, doc)
}

func (s *ScenarioStore) Get(_ context.Context, name string) (scenario.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return scenario.Scenario{}, err
	}
	rec, ok := doc.Scenarios[name]
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("%w: %s", scenario.ErrNotFound, name)
	}
	return ToScenario(name, rec), nil
}

func (s *ScenarioStore) List(_ context.Context) ([]scenario.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]scenario.Scenario, 0, len(doc.Scenarios))
	for name, rec := range doc.Scenarios {
		out = append(out, ToScenario(name, rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ScenarioStore) Delete(_ context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, n := range names {
		if _, ok := doc.Scenarios[n]; ok {
			delete(doc.Scenarios, n)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return Write(s.path, doc)
}

func (s *ScenarioStore) Close() error { return nil }
