// SPDX-License-Identifier: MIT

package coloring

import (
	"fmt"
	"math/rand"
)

const (
	methodCycle             = "Cycle"
	methodComplete          = "Complete"
	methodWheel             = "Wheel"
	methodCompleteBipartite = "CompleteBipartite"
	methodCrown             = "Crown"
	methodRandom            = "RandomGraph"

	minCycleNodes = 3
	minWheelNodes = 4 // the rim must be a cycle
	minCrownSide  = 2
)

// Cycle returns Cₙ over the vertices 0..n-1 in ring order. Requires n ≥ 3.
func Cycle(n int) (*Graph, error) {
	if n < minCycleNodes {
		return nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
	}
	g, err := NewGraph(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err = g.AddEdge(i, (i+1)%n); err != nil {
			return nil, fmt.Errorf("%s: %w", methodCycle, err)
		}
	}

	return g, nil
}

// Complete returns Kₙ.
func Complete(n int) (*Graph, error) {
	g, err := NewGraph(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodComplete, err)
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if err = g.AddEdge(u, v); err != nil {
				return nil, fmt.Errorf("%s: %w", methodComplete, err)
			}
		}
	}

	return g, nil
}

// Wheel returns Wₙ: the rim Cₙ₋₁ on 0..n-2 plus the hub n-1. Requires n ≥ 4.
func Wheel(n int) (*Graph, error) {
	if n < minWheelNodes {
		return nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodWheel, n, minWheelNodes, ErrTooFewVertices)
	}
	rim, err := Cycle(n - 1)
	if err != nil {
		return nil, fmt.Errorf("%s: base cycle: %w", methodWheel, err)
	}
	g, _ := NewGraph(n)
	for _, e := range rim.Edges() {
		_ = g.AddEdge(e[0], e[1])
	}
	hub := n - 1
	for i := 0; i < hub; i++ {
		_ = g.AddEdge(hub, i)
	}

	return g, nil
}

// CompleteBipartite returns K_{a,b} with parts 0..a-1 and a..a+b-1.
func CompleteBipartite(a, b int) (*Graph, error) {
	if a < 1 || b < 1 {
		return nil, fmt.Errorf("%s: a=%d, b=%d: %w", methodCompleteBipartite, a, b, ErrTooFewVertices)
	}
	g, _ := NewGraph(a + b)
	for u := 0; u < a; u++ {
		for v := a; v < a+b; v++ {
			_ = g.AddEdge(u, v)
		}
	}

	return g, nil
}

// Crown returns the crown graph on 2k vertices: vertex 2i and 2j+1 are
// adjacent iff i ≠ j. It is bipartite, yet first-fit in vertex order needs k
// colours. Requires k ≥ 2.
func Crown(k int) (*Graph, error) {
	if k < minCrownSide {
		return nil, fmt.Errorf("%s: k=%d < min=%d: %w", methodCrown, k, minCrownSide, ErrTooFewVertices)
	}
	g, _ := NewGraph(2 * k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i != j {
				_ = g.AddEdge(2*i, 2*j+1)
			}
		}
	}

	return g, nil
}

// Petersen returns the Petersen graph: outer ring 0..4, spokes i–i+5 and
// the inner pentagram on 5..9.
func Petersen() *Graph {
	g, _ := NewGraph(10)
	for i := 0; i < 5; i++ {
		_ = g.AddEdge(i, (i+1)%5)
		_ = g.AddEdge(i, i+5)
		_ = g.AddEdge(5+i, 5+(i+2)%5)
	}

	return g
}

// Mycielski returns the Mycielskian of g: its chromatic number is one more
// than g's and it stays triangle-free when g is. Vertices 0..n-1 copy g,
// n..2n-1 are their shadows and 2n is the apex.
func Mycielski(g *Graph) *Graph {
	n := g.Order()
	m, _ := NewGraph(2*n + 1)
	for _, e := range g.Edges() {
		u, v := e[0], e[1]
		_ = m.AddEdge(u, v)
		_ = m.AddEdge(u, n+v)
		_ = m.AddEdge(n+u, v)
	}
	for i := 0; i < n; i++ {
		_ = m.AddEdge(n+i, 2*n)
	}

	return m
}

// RandomGraph returns a G(n, p) graph drawn from a source seeded with seed.
func RandomGraph(n int, p float64, seed int64) (*Graph, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%s: p=%v outside [0,1]", methodRandom, p)
	}
	g, err := NewGraph(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodRandom, err)
	}
	rng := rand.New(rand.NewSource(seed))
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				_ = g.AddEdge(u, v)
			}
		}
	}

	return g, nil
}
