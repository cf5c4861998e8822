// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - SolveCompleted: an optimization finished
//   - SweepCompleted: a sensitivity sweep finished
//   - ScenarioChanged: a scenario was saved or deleted
package events
