package planfile

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/scenario"
)

func TestRead_Example(t *testing.T) {
	doc, err := Read(filepath.Join("testdata", "example_plan.json"))
	require.NoError(t, err)
	require.Len(t, doc.WorkTypes, 4)
	assert.Equal(t, "Vegetation Management", doc.WorkTypes[1].Name)
	assert.Equal(t, 3000.0, doc.WorkTypes[1].UnitCost)
	require.NotNil(t, doc.Budget)
	assert.Equal(t, 1e6, *doc.Budget)
	assert.Nil(t, doc.Results)

	base := ToScenario("Baseline", doc.Scenarios["Baseline"])
	assert.Equal(t, 420000.0, base.TotalCost)
	assert.Equal(t, scenario.Row{WorkType: "Meter Installation", Units: 150, Cost: 60000}, base.Rows[3])
}

func TestWriteRead_RoundTrip(t *testing.T) {
	budget := 1000.0
	doc := Document{
		WorkTypes: []model.WorkItem{
			{Name: "A", UnitCost: 100, Priority: 5, MinUnits: 0, MaxUnits: 10},
			{Name: "B", UnitCost: 200, Priority: 9, MinUnits: 1, MaxUnits: 5},
		},
		Budget:  &budget,
		Results: &model.OptimizationResult{Status: model.StatusTimeLimit, Allocation: []int{8, 1}, ObjectiveValue: 49},
		Scenarios: map[string]ScenarioRecord{
			"s1": {TotalCost: 1000, ObjectiveValue: 49, Data: []scenario.Row{{WorkType: "A", Units: 8, Cost: 800}}},
		},
	}
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "plan.yaml", "plan.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Write(path, doc))
			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(bytes.NewBufferString(`{"work_types": [`), FormatJSON)
	assert.Error(t, err)
	_, err = Decode(bytes.NewBufferString(`{"results": {"status": "Solved"}}`), FormatJSON)
	assert.Error(t, err)
	doc, err := Decode(bytes.NewBufferString(``), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, doc.WorkTypes)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("a/b.YAML"))
	assert.Equal(t, FormatYAML, FormatFor("b.yml"))
	assert.Equal(t, FormatJSON, FormatFor("b.json"))
	assert.Equal(t, FormatJSON, FormatFor("b"))
}

func TestScenarioStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plan.json")
	budget := 500.0
	require.NoError(t, Write(path, Document{
		WorkTypes: []model.WorkItem{{Name: "A", UnitCost: 1, Priority: 1, MaxUnits: 3}},
		Budget:    &budget,
	}))

	s := NewScenarioStore(path)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Save(ctx, scenario.Scenario{Name: "b", TotalCost: 2, ObjectiveValue: 2}))
	require.NoError(t, s.Save(ctx, scenario.Scenario{Name: "a", TotalCost: 3, ObjectiveValue: 3}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)

	got, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.TotalCost)
	_, err = s.Get(ctx, "zzz")
	assert.True(t, errors.Is(err, scenario.ErrNotFound))

	require.NoError(t, s.Delete(ctx, "a", "missing"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// the rest of the document is preserved
	doc, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, doc.WorkTypes, 1)
	require.NotNil(t, doc.Budget)
	assert.Equal(t, 500.0, *doc.Budget)
}

func TestScenarioStore_MissingFile(t *testing.T) {
	s := NewScenarioStore(filepath.Join(t.TempDir(), "new.yaml"))
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, s.Save(context.Background(), scenario.Scenario{Name: "x"}))
	list, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
