// SPDX-License-Identifier: MIT

// Package bap: search tree nodes, branching decisions and branch creators.
package bap

import (
	"slices"

	"github.com/katalvlaran/branchprice/colgen"
)

// BranchingDecision is one edge of the search tree.
//
// Apply mutates the collaborators (pricing solvers, master builders) to
// enforce the decision; Rewind undoes exactly what Apply did. The Applier calls
// them in strict LIFO order, so implementations may keep undo state.
type BranchingDecision[C colgen.Column] interface {
	Apply()
	Rewind()

	// ColumnCompatible reports whether col survives the decision in a child.
	ColumnCompatible(col C) bool

	// InequalityCompatible reports whether ineq survives the decision in a child.
	InequalityCompatible(ineq colgen.Inequality) bool

	String() string
}

// BranchCreator produces the children of a fractional node.
//
// CanBranch is a cheap applicability test on the fractional solution; Branch
// must return at least one child whenever CanBranch returned true. Children
// are created through the factory only.
type BranchCreator[C colgen.Column] interface {
	Name() string
	CanBranch(solution []C) bool
	Branch(parent *Node[C], factory *NodeFactory[C]) []*Node[C]
}

// Node is a vertex of the branch-and-price tree.
//
// Path holds the node ids from the root to this node (inclusive); Decisions
// holds the decisions along that path, so len(Path) == len(Decisions)+1.
type Node[C colgen.Column] struct {
	ID        int
	Path      []int
	Decisions []BranchingDecision[C]

	// Columns seed the node's master. After the solve they hold every
	// non-artificial column the master ended with.
	Columns      []C
	Inequalities []colgen.Inequality

	// Bound is the best known bound on the node's relaxation; it only ever
	// tightens along a root→leaf path.
	Bound float64

	// Objective and Solution are set once the node has been solved.
	// Column values in Solution are valid until the next node is solved.
	Objective float64
	Solution  []C

	Status NodeStatus
}

// Depth returns the number of decisions from the root.
func (n *Node[C]) Depth() int { return len(n.Decisions) }

// ParentID returns the parent's id, or -1 for the root.
func (n *Node[C]) ParentID() int {
	if len(n.Path) < 2 {
		return -1
	}

	return n.Path[len(n.Path)-2]
}

// LastDecision returns the decision that created n (nil for the root).
func (n *Node[C]) LastDecision() BranchingDecision[C] {
	if len(n.Decisions) == 0 {
		return nil
	}

	return n.Decisions[len(n.Decisions)-1]
}

// IsRoot reports whether n is the root node.
func (n *Node[C]) IsRoot() bool { return len(n.Path) == 1 }

// NodeFactory creates nodes with unique, monotonically increasing ids.
// It belongs to a single engine and is not safe for concurrent use.
type NodeFactory[C colgen.Column] struct {
	next int
}

// Root creates the root node.
func (f *NodeFactory[C]) Root(columns []C, inequalities []colgen.Inequality, bound float64) *Node[C] {
	id := f.nextID()

	return &Node[C]{
		ID:           id,
		Path:         []int{id},
		Columns:      slices.Clone(columns),
		Inequalities: slices.Clone(inequalities),
		Bound:        bound,
		Status:       NodePending,
	}
}

// Child creates a child of parent under decision. The child inherits the
// parent's bound and the parent's columns and inequalities that are
// compatible with decision; artificial columns are never inherited.
//
// Complexity: O(depth + |columns| + |inequalities|).
func (f *NodeFactory[C]) Child(parent *Node[C], decision BranchingDecision[C]) *Node[C] {
	id := f.nextID()

	path := make([]int, len(parent.Path), len(parent.Path)+1)
	copy(path, parent.Path)
	decisions := make([]BranchingDecision[C], len(parent.Decisions), len(parent.Decisions)+1)
	copy(decisions, parent.Decisions)

	columns := make([]C, 0, len(parent.Columns))
	for _, col := range parent.Columns {
		if !col.Artificial() && decision.ColumnCompatible(col) {
			columns = append(columns, col)
		}
	}
	var inequalities []colgen.Inequality
	for _, ineq := range parent.Inequalities {
		if decision.InequalityCompatible(ineq) {
			inequalities = append(inequalities, ineq)
		}
	}

	return &Node[C]{
		ID:           id,
		Path:         append(path, id),
		Decisions:    append(decisions, decision),
		Columns:      columns,
		Inequalities: inequalities,
		Bound:        parent.Bound,
		Status:       NodePending,
	}
}

// Created returns how many nodes the factory has created.
func (f *NodeFactory[C]) Created() int { return f.next }

func (f *NodeFactory[C]) nextID() int {
	id := f.next
	f.next++

	return id
}
