// SPDX-License-Identifier: MIT

package coloring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/branchprice/coloring"
)

func TestGraph_EdgeLifecycle(t *testing.T) {
	_, err := coloring.NewGraph(-1)
	require.ErrorIs(t, err, coloring.ErrVertexCount)

	g, err := coloring.NewGraph(4)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Order())

	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 0), "re-adding is a no-op")
	require.NoError(t, g.AddEdge(2, 1))
	assert.Equal(t, 2, g.Size())
	assert.True(t, g.HasEdge(1, 0))
	assert.False(t, g.HasEdge(0, 2))
	assert.False(t, g.HasEdge(0, 9))
	assert.Equal(t, 2, g.Degree(1))
	assert.Equal(t, 0, g.Degree(-1))

	nbrs, err := g.Neighbors(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, nbrs)
	_, err = g.Neighbors(4)
	assert.ErrorIs(t, err, coloring.ErrVertexOutOfRange)

	assert.ErrorIs(t, g.AddEdge(3, 3), coloring.ErrLoopNotAllowed)
	assert.ErrorIs(t, g.AddEdge(0, 4), coloring.ErrVertexOutOfRange)
	assert.ErrorIs(t, g.RemoveEdge(0, 3), coloring.ErrEdgeNotFound)

	require.NoError(t, g.RemoveEdge(1, 0))
	assert.False(t, g.HasEdge(0, 1))
	assert.Equal(t, [][2]int{{1, 2}}, g.Edges())
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g, err := coloring.Cycle(4)
	require.NoError(t, err)

	c := g.Clone()
	require.NoError(t, c.AddEdge(0, 2))
	assert.True(t, c.HasEdge(0, 2))
	assert.False(t, g.HasEdge(0, 2))
	assert.Equal(t, 4, g.Size())
	assert.Equal(t, 5, c.Size())
}

func TestGraph_IndependenceAndColorings(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)

	assert.True(t, g.IsIndependent([]int{0, 2}))
	assert.True(t, g.IsIndependent(nil))
	assert.False(t, g.IsIndependent([]int{0, 1}))
	assert.False(t, g.IsIndependent([]int{0, 0}))
	assert.False(t, g.IsIndependent([]int{7}))

	assert.True(t, g.IsColoring([]int{0, 1, 0, 1, 2}, 3))
	assert.False(t, g.IsColoring([]int{0, 1, 0, 1, 0}, 2))
	assert.False(t, g.IsColoring([]int{0, 1, 0, 1, 2}, 2), "colour out of range")
	assert.False(t, g.IsColoring([]int{0, 1}, 3), "wrong length")
}

func TestBuilders(t *testing.T) {
	cases := []struct {
		name         string
		build        func() (*coloring.Graph, error)
		order, edges int
	}{
		{"cycle", func() (*coloring.Graph, error) { return coloring.Cycle(5) }, 5, 5},
		{"complete", func() (*coloring.Graph, error) { return coloring.Complete(4) }, 4, 6},
		{"wheel", func() (*coloring.Graph, error) { return coloring.Wheel(6) }, 6, 10},
		{"bipartite", func() (*coloring.Graph, error) { return coloring.CompleteBipartite(2, 3) }, 5, 6},
		{"crown", func() (*coloring.Graph, error) { return coloring.Crown(4) }, 8, 12},
		{"petersen", func() (*coloring.Graph, error) { return coloring.Petersen(), nil }, 10, 15},
		{"grötzsch", func() (*coloring.Graph, error) {
			c5, err := coloring.Cycle(5)
			if err != nil {
				return nil, err
			}
			return coloring.Mycielski(c5), nil
		}, 11, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := tc.build()
			require.NoError(t, err)
			assert.Equal(t, tc.order, g.Order())
			assert.Equal(t, tc.edges, g.Size())
		})
	}

	_, err := coloring.Cycle(2)
	assert.ErrorIs(t, err, coloring.ErrTooFewVertices)
	_, err = coloring.Wheel(3)
	assert.ErrorIs(t, err, coloring.ErrTooFewVertices)
	_, err = coloring.Crown(1)
	assert.ErrorIs(t, err, coloring.ErrTooFewVertices)
	_, err = coloring.CompleteBipartite(0, 2)
	assert.ErrorIs(t, err, coloring.ErrTooFewVertices)
	_, err = coloring.RandomGraph(3, 1.5, 1)
	assert.Error(t, err)
}

func TestRandomGraph_Deterministic(t *testing.T) {
	a, err := coloring.RandomGraph(12, 0.4, 42)
	require.NoError(t, err)
	b, err := coloring.RandomGraph(12, 0.4, 42)
	require.NoError(t, err)
	assert.Equal(t, a.Edges(), b.Edges())

	full, err := coloring.RandomGraph(5, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 10, full.Size())
}

func TestGreedy(t *testing.T) {
	crown, err := coloring.Crown(4)
	require.NoError(t, err)
	colors, k := coloring.Greedy(crown)
	assert.Equal(t, 4, k, "first-fit in vertex order is poor on crown graphs")
	assert.True(t, crown.IsColoring(colors, k))

	classes := coloring.ColorClasses(colors, k, "test")
	require.Len(t, classes, 4)
	for _, c := range classes {
		assert.True(t, crown.IsIndependent(c.Vertices))
		assert.Equal(t, "test", c.Creator())
	}
	assert.Equal(t, []int{0, 1}, classes[0].Vertices)
}
