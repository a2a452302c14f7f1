// SPDX-License-Identifier: MIT

package bap

import "time"

// EventKind identifies what happened in the search.
type EventKind int

const (
	EventRunStarted EventKind = iota
	EventNodeStarted
	EventNodePruned
	EventNodeInfeasible
	EventNodeIntegral
	EventNodeBranched
	EventNodeRequeued
	EventIncumbent
	EventRunFinished
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "run-started"
	case EventNodeStarted:
		return "node-started"
	case EventNodePruned:
		return "node-pruned"
	case EventNodeInfeasible:
		return "node-infeasible"
	case EventNodeIntegral:
		return "node-integral"
	case EventNodeBranched:
		return "node-branched"
	case EventNodeRequeued:
		return "node-requeued"
	case EventIncumbent:
		return "incumbent"
	case EventRunFinished:
		return "run-finished"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to every Observer on the Run goroutine.
// Observers must not call back into the engine.
type Event struct {
	Kind     EventKind
	RunID    string
	NodeID   int
	ParentID int
	Depth    int

	// Bound is the node bound for node events and the global bound for
	// EventRunFinished.
	Bound     float64
	Objective float64
	Incumbent float64

	Children   []int
	Iterations int
	Elapsed    time.Duration
}

// Observer receives search events.
type Observer func(Event)
