// SPDX-License-Identifier: MIT

package coloring

import (
	"slices"
	"sync"
)

// Model is the branching state shared by the pricing solvers and the
// Ryan–Foster decisions.
//
// The pricing graph starts as a copy of the input graph; every applied
// Differ decision adds an edge to it and every applied Same decision merges
// two vertices into one pricing group. Decisions mutate the model only
// between pricing tiers.
type Model struct {
	graph   *Graph
	pricing *Graph

	mu   sync.RWMutex
	same [][2]int // stack of applied Same pairs
}

// NewModel returns a model over g with no decision applied.
func NewModel(g *Graph) *Model {
	return &Model{graph: g, pricing: g.Clone()}
}

// Graph returns the input graph.
func (m *Model) Graph() *Graph { return m.graph }

// PricingGraph returns the input graph plus the applied Differ edges.
func (m *Model) PricingGraph() *Graph { return m.pricing }

// SamePairs returns the applied Same pairs in application order.
func (m *Model) SamePairs() [][2]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.same)
}

func (m *Model) pushSame(u, v int) {
	m.mu.Lock()
	m.same = append(m.same, [2]int{u, v})
	m.mu.Unlock()
}

func (m *Model) popSame() {
	m.mu.Lock()
	if n := len(m.same); n > 0 {
		m.same = m.same[:n-1]
	}
	m.mu.Unlock()
}

// partition groups the vertices that Same decisions tie together and records
// which groups the pricing graph keeps apart.
type partition struct {
	groups   [][]int // members ascending; groups ordered by smallest member
	of       []int   // group of each vertex
	conflict [][]bool
	broken   []bool // an edge joins two members: the group fits in no column
}

// partition computes the current grouping.
//
// Complexity: O(V² + E log E).
func (m *Model) partition() partition {
	n := m.graph.Order()
	parent := make([]int, n)
	for v := range parent {
		parent[v] = v
	}
	find := func(v int) int {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}

		return v
	}
	for _, p := range m.SamePairs() {
		a, b := find(p[0]), find(p[1])
		if a != b {
			parent[max(a, b)] = min(a, b)
		}
	}

	var (
		p     = partition{of: make([]int, n)}
		index = make(map[int]int)
	)
	for v := 0; v < n; v++ {
		r := find(v)
		g, ok := index[r]
		if !ok {
			g = len(p.groups)
			index[r] = g
			p.groups = append(p.groups, nil)
		}
		p.groups[g] = append(p.groups[g], v)
		p.of[v] = g
	}

	k := len(p.groups)
	p.broken = make([]bool, k)
	p.conflict = make([][]bool, k)
	for g := range p.conflict {
		p.conflict[g] = make([]bool, k)
	}
	for _, e := range m.pricing.Edges() {
		a, b := p.of[e[0]], p.of[e[1]]
		if a == b {
			p.broken[a] = true
			continue
		}
		p.conflict[a][b] = true
		p.conflict[b][a] = true
	}

	return p
}

// decided reports whether the pair (u, v) is already fixed: both in one
// group, or their groups kept apart.
func (p *partition) decided(u, v int) bool {
	a, b := p.of[u], p.of[v]

	return a == b || p.conflict[a][b]
}

// weights sums duals over every group.
func (p *partition) weights(duals []float64) []float64 {
	out := make([]float64, len(p.groups))
	for g, members := range p.groups {
		for _, v := range members {
			if v < len(duals) {
				out[g] += duals[v]
			}
		}
	}

	return out
}

// expand returns the vertices of the given groups, ascending.
func (p *partition) expand(groups []int) []int {
	var out []int
	for _, g := range groups {
		out = append(out, p.groups[g]...)
	}
	slices.Sort(out)

	return out
}
