package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/workplan/core/events"
	"github.com/kilianp07/workplan/core/formulation"
	"github.com/kilianp07/workplan/core/history"
	coremetrics "github.com/kilianp07/workplan/core/metrics"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/monitoring"
	"github.com/kilianp07/workplan/core/scenario"
	"github.com/kilianp07/workplan/core/sensitivity"
	"github.com/kilianp07/workplan/core/solver"
	"github.com/kilianp07/workplan/infra/logger"
	"github.com/kilianp07/workplan/internal/eventbus"
)

// Run is the last optimization handled by a Planner.
type Run struct {
	Items  []model.WorkItem
	Budget float64
	Result model.OptimizationResult
}

// Planner runs one request end to end: formulate, solve or sweep, then record
// the outcome in history, metrics and on the event bus. Recording failures are
// logged and reported but never change the computed result.
type Planner struct {
	solver    *solver.Solver
	sweeper   *sensitivity.Sweeper
	history   history.Store
	scenarios scenario.Store
	sink      coremetrics.MetricsSink
	bus       eventbus.EventBus[events.Event]
	log       logger.Logger

	mu   sync.Mutex
	last *Run
}

// PlannerOption customises a Planner.
type PlannerOption func(*Planner)

func WithHistory(h history.Store) PlannerOption { return func(p *Planner) { p.history = h } }

func WithScenarios(s scenario.Store) PlannerOption { return func(p *Planner) { p.scenarios = s } }

func WithSink(s coremetrics.MetricsSink) PlannerOption { return func(p *Planner) { p.sink = s } }

func WithBus(b eventbus.EventBus[events.Event]) PlannerOption { return func(p *Planner) { p.bus = b } }

func WithLogger(l logger.Logger) PlannerOption { return func(p *Planner) { p.log = l } }

// NewPlanner builds a Planner. Collaborators not supplied through options
// default to in-memory or no-op implementations.
func NewPlanner(scfg solver.Config, wcfg sensitivity.Config, opts ...PlannerOption) *Planner {
	p := &Planner{
		history:   history.NopStore{},
		scenarios: scenario.NewMemoryStore(),
		sink:      coremetrics.NopSink{},
		log:       logger.NopLogger{},
	}
	for _, o := range opts {
		o(p)
	}
	p.solver = solver.New(scfg, p.log)
	p.sweeper = sensitivity.New(p.solver, wcfg, p.log)
	return p
}

// Optimize formulates and solves one allocation problem.
func (p *Planner) Optimize(ctx context.Context, items []model.WorkItem, budget float64) (model.OptimizationResult, error) {
	m, err := formulation.Formulate(items, budget)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.OptimizationResult{}, err
	}
	start := time.Now()
	res, st := p.solver.SolveWithStats(m)
	runID := uuid.NewString()

	p.mu.Lock()
	p.last = &Run{Items: m.Items, Budget: budget, Result: res}
	p.mu.Unlock()

	rec := history.NewOptimizeRecord(m.Items, budget, res)
	rec.ID = runID
	p.appendHistory(ctx, rec)

	total := m.TotalCost(res.Allocation)
	p.recordSolve(coremetrics.SolveEvent{
		RunID:       runID,
		Status:      res.Status,
		Budget:      budget,
		WorkTypes:   len(m.Items),
		Objective:   res.ObjectiveValue,
		TotalCost:   total,
		Utilization: model.Utilization(total, budget),
		Nodes:       st.Nodes,
		Duration:    st.Elapsed,
		Time:        start,
	})
	p.publish(events.SolveCompleted{
		RunID:    runID,
		Items:    m.Items,
		Budget:   budget,
		Result:   res,
		Nodes:    st.Nodes,
		Duration: st.Elapsed,
		Time:     start,
	})
	p.log.Infof("optimize %s: status=%s objective=%g cost=%.2f/%.2f", runID, res.Status, res.ObjectiveValue, total, budget)
	return res, nil
}

// Sensitivity sweeps steps budgets around reference.
func (p *Planner) Sensitivity(ctx context.Context, items []model.WorkItem, reference float64, steps int) ([]model.SensitivityPoint, error) {
	start := time.Now()
	pts, err := p.sweeper.Sweep(ctx, items, reference, steps)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	runID := uuid.NewString()

	rec := history.NewSensitivityRecord(items, reference, steps, pts)
	rec.ID = runID
	p.appendHistory(ctx, rec)

	if rs, ok := p.sink.(coremetrics.SweepRecorder); ok {
		ev := coremetrics.SweepEvent{RunID: runID, Reference: reference, Points: pts, Duration: elapsed, Time: start}
		if err := rs.RecordSweep(ev); err != nil {
			p.report(err, "record sweep")
		}
	}
	p.publish(events.SweepCompleted{RunID: runID, Reference: reference, Points: pts, Duration: elapsed, Time: start})
	p.log.Infof("sensitivity %s: %d points around %.2f in %s", runID, len(pts), reference, elapsed)
	return pts, nil
}

// Last returns the most recent optimization, if any.
func (p *Planner) Last() (Run, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Run{}, false
	}
	return *p.last, true
}

// SaveScenario stores res under name.
func (p *Planner) SaveScenario(ctx context.Context, name string, items []model.WorkItem, res model.OptimizationResult) (scenario.Scenario, error) {
	sc, err := scenario.FromResult(name, items, res)
	if err != nil {
		return scenario.Scenario{}, err
	}
	if err := p.scenarios.Save(ctx, sc); err != nil {
		return scenario.Scenario{}, err
	}
	p.publish(events.ScenarioChanged{Names: []string{name}, Action: events.ScenarioSaved, Time: time.Now().UTC()})
	return sc, nil
}

// SaveLast stores the most recent optimization under name.
func (p *Planner) SaveLast(ctx context.Context, name string) (scenario.Scenario, error) {
	run, ok := p.Last()
	if !ok {
		return scenario.Scenario{}, ErrNoResult
	}
	return p.SaveScenario(ctx, name, run.Items, run.Result)
}

// Scenarios lists saved scenarios ordered by name.
func (p *Planner) Scenarios(ctx context.Context) ([]scenario.Scenario, error) {
	return p.scenarios.List(ctx)
}

// CompareScenarios summarises the named scenarios, or all of them when no
// name is given, together with the scenarios themselves for charting.
func (p *Planner) CompareScenarios(ctx context.Context, names ...string) ([]scenario.Comparison, []scenario.Scenario, error) {
	all, err := p.scenarios.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := scenario.Compare(all, names...)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return rows, all, nil
	}
	picked := make([]scenario.Scenario, 0, len(names))
	for _, n := range names {
		for _, s := range all {
			if s.Name == n {
				picked = append(picked, s)
				break
			}
		}
	}
	return rows, picked, nil
}

// DeleteScenarios removes the named scenarios.
func (p *Planner) DeleteScenarios(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := p.scenarios.Delete(ctx, names...); err != nil {
		return err
	}
	p.publish(events.ScenarioChanged{Names: names, Action: events.ScenarioDeleted, Time: time.Now().UTC()})
	return nil
}

// History queries past runs.
func (p *Planner) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return p.history.Query(ctx, q)
}

func (p *Planner) appendHistory(ctx context.Context, rec history.Record) {
	if err := p.history.Append(ctx, rec); err != nil {
		p.report(err, "append history")
	}
}

func (p *Planner) recordSolve(ev coremetrics.SolveEvent) {
	if err := p.sink.RecordSolve(ev); err != nil {
		p.report(err, "record solve")
	}
}

func (p *Planner) publish(ev events.Event) {
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}

func (p *Planner) report(err error, op string) {
	p.log.Errorf("%s: %v", op, err)
	monitoring.CaptureException(err, map[string]string{"module": "planner", "op": op})
}
