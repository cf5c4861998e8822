// Package plan exposes the planner over HTTP.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/workplan/core/formulation"
	"github.com/kilianp07/workplan/core/history"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/scenario"
)

// Planner is the subset of app.Planner served by the API.
type Planner interface {
	Optimize(ctx context.Context, items []model.WorkItem, budget float64) (model.OptimizationResult, error)
	Sensitivity(ctx context.Context, items []model.WorkItem, reference float64, steps int) ([]model.SensitivityPoint, error)
	SaveScenario(ctx context.Context, name string, items []model.WorkItem, res model.OptimizationResult) (scenario.Scenario, error)
	Scenarios(ctx context.Context) ([]scenario.Scenario, error)
	CompareScenarios(ctx context.Context, names ...string) ([]scenario.Comparison, []scenario.Scenario, error)
	DeleteScenarios(ctx context.Context, names ...string) error
	History(ctx context.Context, q history.Query) ([]history.Record, error)
}

// OptimizeRequest is the body of POST /api/optimize.
type OptimizeRequest struct {
	WorkTypes []model.WorkItem `json:"work_types"`
	Budget    float64          `json:"budget"`
}

// SensitivityRequest is the body of POST /api/sensitivity.
type SensitivityRequest struct {
	WorkTypes []model.WorkItem `json:"work_types"`
	Budget    float64          `json:"budget"`
	Steps     int              `json:"steps"`
}

// SaveScenarioRequest is the body of POST /api/scenarios.
type SaveScenarioRequest struct {
	Name      string                   `json:"name"`
	WorkTypes []model.WorkItem         `json:"work_types"`
	Result    model.OptimizationResult `json:"result"`
}

const maxBody = 4 << 20

// NewHandler returns the planning API. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewHandler(p Planner, token string) http.Handler {
	h := &handler{p: p}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/optimize", h.optimize)
	mux.HandleFunc("POST /api/sensitivity", h.sensitivity)
	mux.HandleFunc("GET /api/scenarios", h.listScenarios)
	mux.HandleFunc("POST /api/scenarios", h.saveScenario)
	mux.HandleFunc("DELETE /api/scenarios", h.deleteScenarios)
	mux.HandleFunc("GET /api/scenarios/compare", h.compareScenarios)
	mux.HandleFunc("GET /api/history", h.history)
	return requireToken(token, mux)
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type handler struct {
	p Planner
}

func (h *handler) optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.p.Optimize(r.Context(), req.WorkTypes, req.Budget)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (h *handler) sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !decode(w, r, &req) {
		return
	}
	pts, err := h.p.Sensitivity(r.Context(), req.WorkTypes, req.Budget, req.Steps)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, pts)
}

func (h *handler) listScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.p.Scenarios(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *handler) saveScenario(w http.ResponseWriter, r *http.Request) {
	var req SaveScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	sc, err := h.p.SaveScenario(r.Context(), req.Name, req.WorkTypes, req.Result)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sc)
}

func (h *handler) deleteScenarios(w http.ResponseWriter, r *http.Request) {
	names := r.URL.Query()["name"]
	if len(names) == 0 {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := h.p.DeleteScenarios(r.Context(), names...); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) compareScenarios(w http.ResponseWriter, r *http.Request) {
	rows, _, err := h.p.CompareScenarios(r.Context(), r.URL.Query()["name"]...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	q := history.Query{}
	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	q.Kind = history.Kind(r.URL.Query().Get("kind"))
	if s := r.URL.Query().Get("status"); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.Status = st
	}
	records, err := h.p.History(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, records)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, formulation.ErrValidation),
		errors.Is(err, formulation.ErrNonFinite),
		errors.Is(err, scenario.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scenario.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
