// SPDX-License-Identifier: MIT

// Package bap: open-node queue and node selection rules.
package bap

import (
	"container/heap"

	"github.com/katalvlaran/branchprice/colgen"
)

// NodeOrder selects the built-in node selection rule.
type NodeOrder int

const (
	// DepthFirst pops the deepest node first (ties: newest first).
	DepthFirst NodeOrder = iota
	// BreadthFirst pops the shallowest node first (ties: oldest first).
	BreadthFirst
	// BestBound pops the node with the best bound first (ties: deepest first).
	BestBound
)

// String implements fmt.Stringer.
func (o NodeOrder) String() string {
	switch o {
	case BreadthFirst:
		return "bfs"
	case BestBound:
		return "best-bound"
	default:
		return "dfs"
	}
}

// NodeKey is the view of a node a selection rule sees.
type NodeKey struct {
	ID    int
	Depth int
	Bound float64
}

// Less reports whether a must be processed before b.
type Less func(a, b NodeKey) bool

// lessFor returns the built-in rule for order under sense.
func lessFor(order NodeOrder, sense colgen.Sense) Less {
	switch order {
	case BreadthFirst:
		return func(a, b NodeKey) bool {
			if a.Depth != b.Depth {
				return a.Depth < b.Depth
			}

			return a.ID < b.ID
		}
	case BestBound:
		return func(a, b NodeKey) bool {
			if sense.Better(a.Bound, b.Bound, 0) {
				return true
			}
			if sense.Better(b.Bound, a.Bound, 0) {
				return false
			}
			if a.Depth != b.Depth {
				return a.Depth > b.Depth
			}

			return a.ID > b.ID
		}
	default:
		return func(a, b NodeKey) bool {
			if a.Depth != b.Depth {
				return a.Depth > b.Depth
			}

			return a.ID > b.ID
		}
	}
}

// nodeQueue is a heap of open nodes ordered by less.
type nodeQueue[C colgen.Column] struct {
	items []*Node[C]
	less  Less
}

func newNodeQueue[C colgen.Column](less Less) *nodeQueue[C] {
	return &nodeQueue[C]{less: less}
}

// Len returns the number of open nodes.
func (q *nodeQueue[C]) Len() int { return len(q.items) }

// Less compares two heap slots through the selection rule.
func (q *nodeQueue[C]) Less(i, j int) bool {
	return q.less(keyOf(q.items[i]), keyOf(q.items[j]))
}

// Swap swaps two heap slots.
func (q *nodeQueue[C]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

// Push appends x; used by heap.Push.
func (q *nodeQueue[C]) Push(x any) { q.items = append(q.items, x.(*Node[C])) }

// Pop removes the last slot; used by heap.Pop.
func (q *nodeQueue[C]) Pop() any {
	n := len(q.items)
	it := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]

	return it
}

func (q *nodeQueue[C]) push(n *Node[C]) { heap.Push(q, n) }

func (q *nodeQueue[C]) pop() *Node[C] { return heap.Pop(q).(*Node[C]) }

// loosest folds the bounds of every open node into from.
func (q *nodeQueue[C]) loosest(sense colgen.Sense, from float64) float64 {
	for _, n := range q.items {
		from = sense.Looser(from, n.Bound)
	}

	return from
}

func keyOf[C colgen.Column](n *Node[C]) NodeKey {
	return NodeKey{ID: n.ID, Depth: n.Depth(), Bound: n.Bound}
}
