package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/workplan/core/model"
)

func items() []model.WorkItem {
	return []model.WorkItem{{Name: "A", UnitCost: 3, Priority: 1, MaxUnits: 5}}
}

func seed(t *testing.T, s Store) time.Time {
	t.Helper()
	ctx := context.Background()
	opt := NewOptimizeRecord(items(), 9, model.OptimizationResult{Status: model.StatusOptimal, Allocation: []int{3}, ObjectiveValue: 3})
	inf := NewOptimizeRecord(items(), 1, model.OptimizationResult{Status: model.StatusInfeasible})
	sweep := NewSensitivityRecord(items(), 9, 2, []model.SensitivityPoint{{Budget: 4.5}, {Budget: 13.5}})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []Record{opt, inf, sweep} {
		r.Timestamp = base.Add(time.Duration(i) * time.Hour)
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return base
}

func testQueries(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := seed(t, s)

	all, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("records need distinct ids: %q %q", all[0].ID, all[1].ID)
	}

	cases := []struct {
		name string
		q    Query
		want int
	}{
		{"kind optimize", Query{Kind: KindOptimize}, 2},
		{"kind sensitivity", Query{Kind: KindSensitivity}, 1},
		{"status infeasible", Query{Status: model.StatusInfeasible}, 1},
		{"start", Query{Start: base.Add(30 * time.Minute)}, 2},
		{"end", Query{End: base.Add(30 * time.Minute)}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := s.Query(ctx, tc.q)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(out) != tc.want {
				t.Fatalf("got %d records, want %d", len(out), tc.want)
			}
		})
	}

	sweeps, _ := s.Query(ctx, Query{Kind: KindSensitivity})
	if len(sweeps[0].Points) != 2 || sweeps[0].Steps != 2 {
		t.Fatalf("sweep record lost data: %+v", sweeps[0])
	}
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "history.jsonl"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = s.Close() }()
	testQueries(t, s)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "history.jsonl"), 1, 2, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = s.Close() }()
	testQueries(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = s.Close() }()
	testQueries(t, s)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{"jsonl", "rotating", "sqlite", "none"} {
		s, err := NewStore(Config{Backend: backend, Path: filepath.Join(dir, backend)})
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		_ = s.Close()
	}
	if _, err := NewStore(Config{Backend: "csv"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
