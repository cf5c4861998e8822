package plan_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/workplan/api/plan"
	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/core/history"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/scenario"
	"github.com/kilianp07/workplan/core/sensitivity"
	"github.com/kilianp07/workplan/core/solver"
)

func items() []model.WorkItem {
	return []model.WorkItem{
		{Name: "A", UnitCost: 10, Priority: 5, MinUnits: 0, MaxUnits: 10},
		{Name: "B", UnitCost: 20, Priority: 1, MinUnits: 1, MaxUnits: 5},
	}
}

func newServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	hist, err := history.NewJSONLStore(t.TempDir() + "/history.jsonl")
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })
	p := app.NewPlanner(solver.DefaultConfig(), sensitivity.Config{Workers: 2}, app.WithHistory(hist))
	srv := httptest.NewServer(plan.NewHandler(p, token))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAuth(t *testing.T) {
	srv := newServer(t, "tok")
	resp := do(t, http.MethodGet, srv.URL+"/api/scenarios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/api/scenarios", "tok", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptimize(t *testing.T) {
	srv := newServer(t, "")
	resp := do(t, http.MethodPost, srv.URL+"/api/optimize", "", plan.OptimizeRequest{WorkTypes: items(), Budget: 100})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.OptimizationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, model.StatusOptimal, res.Status)
	assert.Equal(t, []int{8, 1}, res.Allocation)
	assert.InDelta(t, 41, res.ObjectiveValue, 1e-9)
}

func TestOptimizeBadRequests(t *testing.T) {
	srv := newServer(t, "")
	resp := do(t, http.MethodPost, srv.URL+"/api/optimize", "", plan.OptimizeRequest{Budget: 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/optimize", "", plan.OptimizeRequest{WorkTypes: items(), Budget: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/optimize", bytes.NewBufferString("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/optimize", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSensitivity(t *testing.T) {
	srv := newServer(t, "")
	resp := do(t, http.MethodPost, srv.URL+"/api/sensitivity", "", plan.SensitivityRequest{WorkTypes: items(), Budget: 100, Steps: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pts []model.SensitivityPoint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pts))
	require.Len(t, pts, 3)
	assert.InDelta(t, 50, pts[0].Budget, 1e-9)
	assert.InDelta(t, 100, pts[1].Budget, 1e-9)
	assert.InDelta(t, 150, pts[2].Budget, 1e-9)

	resp = do(t, http.MethodPost, srv.URL+"/api/sensitivity", "", plan.SensitivityRequest{WorkTypes: items(), Budget: 100, Steps: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenarioLifecycle(t *testing.T) {
	srv := newServer(t, "")
	base := model.OptimizationResult{Status: model.StatusOptimal, Allocation: []int{8, 1}, ObjectiveValue: 41}
	lean := model.OptimizationResult{Status: model.StatusOptimal, Allocation: []int{4, 1}, ObjectiveValue: 21}

	resp := do(t, http.MethodPost, srv.URL+"/api/scenarios", "", plan.SaveScenarioRequest{Name: "Baseline", WorkTypes: items(), Result: base})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/scenarios", "", plan.SaveScenarioRequest{Name: "Lean", WorkTypes: items(), Result: lean})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/scenarios", "", plan.SaveScenarioRequest{Name: "Bad", WorkTypes: items(), Result: model.OptimizationResult{Status: model.StatusInfeasible}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/scenarios/compare?name=Lean&name=Baseline", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []scenario.Comparison
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Lean", rows[0].Scenario)
	assert.InDelta(t, 60, rows[0].TotalCost, 1e-9)
	assert.InDelta(t, 41, rows[1].PriorityValue, 1e-9)

	resp = do(t, http.MethodGet, srv.URL+"/api/scenarios/compare?name=Missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/scenarios?name=Lean", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/scenarios", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/scenarios", "", nil)
	var list []scenario.Scenario
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Baseline", list[0].Name)
}

func TestHistory(t *testing.T) {
	srv := newServer(t, "")
	do(t, http.MethodPost, srv.URL+"/api/optimize", "", plan.OptimizeRequest{WorkTypes: items(), Budget: 100})
	do(t, http.MethodPost, srv.URL+"/api/optimize", "", plan.OptimizeRequest{WorkTypes: items(), Budget: 5})
	do(t, http.MethodPost, srv.URL+"/api/sensitivity", "", plan.SensitivityRequest{WorkTypes: items(), Budget: 100, Steps: 2})

	resp := do(t, http.MethodGet, srv.URL+"/api/history", "", nil)
	var recs []history.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	assert.Len(t, recs, 3)

	resp = do(t, http.MethodGet, srv.URL+"/api/history?kind=optimize&status=Infeasible", "", nil)
	recs = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	require.Len(t, recs, 1)
	assert.InDelta(t, 5, recs[0].Budget, 1e-9)

	resp = do(t, http.MethodGet, srv.URL+"/api/history?status=Bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
