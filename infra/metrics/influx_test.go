package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/workplan/core/metrics"
	"github.com/kilianp07/workplan/core/model"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.SolveEvent{
		RunID:       "r1",
		Status:      model.StatusOptimal,
		Budget:      1000,
		WorkTypes:   2,
		Objective:   50,
		TotalCost:   1000,
		Utilization: 1,
		Nodes:       3,
		Duration:    1500 * time.Microsecond,
		Time:        now,
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("plan_solve").
		AddTag("status", "Optimal").
		AddTag("run_id", "r1").
		AddField("budget", 1000.0).
		AddField("work_types", 2).
		AddField("objective", 50.0).
		AddField("total_cost", 1000.0).
		AddField("utilization", 1.0).
		AddField("nodes", 3).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(c.bodies) != 1 || c.bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", c.bodies)
	}
}

func TestInfluxSink_RecordSweep(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	ev := coremetrics.SweepEvent{
		RunID:     "r2",
		Reference: 100,
		Points: []model.SensitivityPoint{
			{Budget: 50, Status: model.StatusInfeasible},
			{Budget: 150, ObjectiveValue: 10, BudgetUtilization: 0.6667, Status: model.StatusOptimal},
		},
		Time: time.Now(),
	}
	if err := sink.RecordSweep(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(c.bodies) != 1 {
		t.Fatalf("expected one batched request, got %d", len(c.bodies))
	}
	lines := strings.Split(c.bodies[0], "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), c.bodies[0])
	}
	if !strings.Contains(lines[1], "utilization=0.667") || !strings.Contains(lines[0], "status=Infeasible") {
		t.Errorf("unexpected lines: %q", lines)
	}

	if err := sink.RecordSweep(coremetrics.SweepEvent{}); err != nil {
		t.Fatalf("empty sweep: %v", err)
	}
	if len(c.bodies) != 1 {
		t.Fatalf("empty sweep should not write")
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
