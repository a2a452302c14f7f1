// SPDX-License-Identifier: MIT

// Package bap: sentinel errors, statuses and the search result.
package bap

import (
	"errors"
	"time"

	"github.com/katalvlaran/branchprice/colgen"
)

// Sentinel errors. Messages are prefixed with "bap: ".
var (
	// ErrNoBranch is returned when no branch creator can branch on a
	// fractional node. It is a contract violation of the branch creators.
	ErrNoBranch = errors.New("bap: no branch creator produced children for a fractional node")

	// ErrNilMaster indicates Problem.NewMaster is nil.
	ErrNilMaster = errors.New("bap: master factory is nil")

	// ErrNoArtificial indicates Problem.Artificial is nil.
	ErrNoArtificial = errors.New("bap: artificial column factory is nil")

	// ErrNoCreators indicates Problem.Creators is empty.
	ErrNoCreators = errors.New("bap: no branch creators")

	// ErrEngineClosed indicates Run or WarmStart after Close.
	ErrEngineClosed = errors.New("bap: engine closed")

	// ErrBadSettings wraps YAML and validation failures of Settings.
	ErrBadSettings = errors.New("bap: invalid settings")
)

// NodeStatus is the state of a node in the search tree.
type NodeStatus int

const (
	// NodePending nodes wait in the queue.
	NodePending NodeStatus = iota
	// NodeSolving is the node currently processed.
	NodeSolving
	// NodePruned nodes cannot beat the incumbent.
	NodePruned
	// NodeInfeasible nodes have no feasible solution.
	NodeInfeasible
	// NodeIntegral nodes were solved with an integral solution.
	NodeIntegral
	// NodeFractional nodes were solved with a fractional solution and branched.
	NodeFractional
)

// String implements fmt.Stringer.
func (s NodeStatus) String() string {
	switch s {
	case NodePending:
		return "pending"
	case NodeSolving:
		return "solving"
	case NodePruned:
		return "pruned"
	case NodeInfeasible:
		return "infeasible"
	case NodeIntegral:
		return "integral"
	case NodeFractional:
		return "fractional"
	default:
		return "unknown"
	}
}

// SearchStatus summarises how a run ended.
type SearchStatus int

const (
	// StatusUnknown: the time limit hit before any solution was found.
	StatusUnknown SearchStatus = iota
	// StatusFeasible: a solution is known but optimality is not proven.
	StatusFeasible
	// StatusOptimal: the queue emptied; the incumbent is optimal.
	StatusOptimal
	// StatusInfeasible: the queue emptied without any solution.
	StatusInfeasible
)

// String implements fmt.Stringer.
func (s SearchStatus) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Stats are the engine's counters. They belong to one engine and accumulate
// across Run calls.
type Stats struct {
	NodesProcessed   int
	NodesPruned      int
	NodesInfeasible  int
	NodesIntegral    int
	NodesBranched    int
	NodesRequeued    int
	Iterations       int
	ColumnsGenerated int
	CutsAdded        int
	IncumbentUpdates int
	MaxDepth         int
	MasterTime       time.Duration
	PricingTime      time.Duration
	CutTime          time.Duration
	Elapsed          time.Duration
}

// Result is the outcome of Engine.Run.
//
// (Objective, Bound, Optimal) is always consistent:
//   - Optimal: Bound == Objective (both Sense.Worst() when infeasible).
//   - otherwise: Bound is the loosest bound of the open nodes, never better
//     than Objective.
type Result[C colgen.Column] struct {
	RunID     string
	Status    SearchStatus
	Optimal   bool
	Objective float64
	Bound     float64
	// Solution is the incumbent; column values are those of the incumbent.
	Solution  []C
	OpenNodes int
	Stats     Stats
}
