// SPDX-License-Identifier: MIT

package coloring

import (
	"fmt"
	"slices"
	"sync"
)

// Graph is a simple undirected graph over the vertices 0..n-1.
//
// All mutations acquire a write lock; queries acquire a read lock, so the
// pricing solvers may read a graph while no branching decision is applied.
type Graph struct {
	mu    sync.RWMutex
	adj   []map[int]struct{}
	edges int
}

// NewGraph returns an edgeless graph with n vertices.
func NewGraph(n int) (*Graph, error) {
	if n < 0 {
		return nil, ErrVertexCount
	}
	g := &Graph{adj: make([]map[int]struct{}, n)}
	for v := range g.adj {
		g.adj[v] = make(map[int]struct{})
	}

	return g, nil
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.adj) }

// Size returns the number of edges.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edges
}

// AddEdge connects u and v. Adding an existing edge is a no-op.
//
// Complexity: O(1).
func (g *Graph) AddEdge(u, v int) error {
	if err := g.check(u, v); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adj[u][v]; ok {
		return nil
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	g.edges++

	return nil
}

// RemoveEdge disconnects u and v.
//
// Complexity: O(1).
func (g *Graph) RemoveEdge(u, v int) error {
	if err := g.check(u, v); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adj[u][v]; !ok {
		return fmt.Errorf("edge %d-%d: %w", u, v, ErrEdgeNotFound)
	}
	delete(g.adj[u], v)
	delete(g.adj[v], u)
	g.edges--

	return nil
}

// HasEdge reports whether u and v are adjacent. Out-of-range vertices are
// never adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.valid(u) || !g.valid(v) {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adj[u][v]

	return ok
}

// Neighbors returns the neighbours of v in ascending order.
func (g *Graph) Neighbors(v int) ([]int, error) {
	if !g.valid(v) {
		return nil, fmt.Errorf("vertex %d: %w", v, ErrVertexOutOfRange)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]int, 0, len(g.adj[v]))
	for w := range g.adj[v] {
		out = append(out, w)
	}
	slices.Sort(out)

	return out, nil
}

// Degree returns the number of neighbours of v (0 when out of range).
func (g *Graph) Degree(v int) int {
	if !g.valid(v) {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adj[v])
}

// Edges returns every edge once as {u, v} with u < v, sorted.
func (g *Graph) Edges() [][2]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([][2]int, 0, g.edges)
	for u, nbrs := range g.adj {
		for v := range nbrs {
			if u < v {
				out = append(out, [2]int{u, v})
			}
		}
	}
	slices.SortFunc(out, comparePairs)

	return out
}

// Clone returns a deep copy of g.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := &Graph{adj: make([]map[int]struct{}, len(g.adj)), edges: g.edges}
	for v, nbrs := range g.adj {
		c.adj[v] = make(map[int]struct{}, len(nbrs))
		for w := range nbrs {
			c.adj[v][w] = struct{}{}
		}
	}

	return c
}

// IsIndependent reports whether set holds distinct in-range vertices with no
// edge between any two of them.
func (g *Graph) IsIndependent(set []int) bool {
	seen := make(map[int]struct{}, len(set))
	for i, u := range set {
		if !g.valid(u) {
			return false
		}
		if _, dup := seen[u]; dup {
			return false
		}
		seen[u] = struct{}{}
		for _, v := range set[i+1:] {
			if g.HasEdge(u, v) {
				return false
			}
		}
	}

	return true
}

// IsColoring reports whether colors assigns every vertex a colour in [0, k)
// with no monochromatic edge.
func (g *Graph) IsColoring(colors []int, k int) bool {
	if len(colors) != g.Order() {
		return false
	}
	for _, c := range colors {
		if c < 0 || c >= k {
			return false
		}
	}
	for _, e := range g.Edges() {
		if colors[e[0]] == colors[e[1]] {
			return false
		}
	}

	return true
}

func (g *Graph) valid(v int) bool { return v >= 0 && v < len(g.adj) }

func (g *Graph) check(u, v int) error {
	if !g.valid(u) || !g.valid(v) {
		return fmt.Errorf("edge %d-%d: %w", u, v, ErrVertexOutOfRange)
	}
	if u == v {
		return fmt.Errorf("vertex %d: %w", u, ErrLoopNotAllowed)
	}

	return nil
}
