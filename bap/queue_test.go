// SPDX-License-Identifier: MIT

package bap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/branchprice/colgen"
)

type stubColumn struct {
	colgen.ColumnBase
}

func (*stubColumn) Key() string { return "stub" }

func stubNode(id, depth int, bound float64) *Node[*stubColumn] {
	return &Node[*stubColumn]{
		ID:        id,
		Path:      make([]int, depth+1),
		Decisions: make([]BranchingDecision[*stubColumn], depth),
		Bound:     bound,
	}
}

func drain(q *nodeQueue[*stubColumn]) []int {
	var ids []int
	for q.Len() > 0 {
		ids = append(ids, q.pop().ID)
	}

	return ids
}

func fill(q *nodeQueue[*stubColumn]) {
	q.push(stubNode(0, 0, 1))
	q.push(stubNode(1, 1, 4))
	q.push(stubNode(2, 1, 2))
	q.push(stubNode(3, 2, 3))
	q.push(stubNode(4, 2, 2))
}

func TestQueue_Orders(t *testing.T) {
	cases := []struct {
		name  string
		order NodeOrder
		sense colgen.Sense
		want  []int
	}{
		{"dfs", DepthFirst, colgen.Minimize, []int{4, 3, 2, 1, 0}},
		{"bfs", BreadthFirst, colgen.Minimize, []int{0, 1, 2, 3, 4}},
		{"best-bound min", BestBound, colgen.Minimize, []int{0, 4, 2, 3, 1}},
		{"best-bound max", BestBound, colgen.Maximize, []int{1, 3, 4, 2, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := newNodeQueue[*stubColumn](lessFor(tc.order, tc.sense))
			fill(q)
			assert.Equal(t, tc.want, drain(q))
		})
	}
}

func TestQueue_CustomLess(t *testing.T) {
	q := newNodeQueue[*stubColumn](func(a, b NodeKey) bool { return a.ID%2 == 0 && b.ID%2 == 1 || (a.ID%2 == b.ID%2 && a.ID < b.ID) })
	fill(q)
	assert.Equal(t, []int{0, 2, 4, 1, 3}, drain(q))
}

func TestQueue_Loosest(t *testing.T) {
	q := newNodeQueue[*stubColumn](lessFor(DepthFirst, colgen.Minimize))
	assert.Equal(t, 7.0, q.loosest(colgen.Minimize, 7))

	fill(q)
	assert.Equal(t, 1.0, q.loosest(colgen.Minimize, math.Inf(1)))
	assert.Equal(t, 4.0, q.loosest(colgen.Maximize, math.Inf(-1)))
}

func TestNodeOrder_String(t *testing.T) {
	assert.Equal(t, "dfs", DepthFirst.String())
	assert.Equal(t, "bfs", BreadthFirst.String())
	assert.Equal(t, "best-bound", BestBound.String())
}
