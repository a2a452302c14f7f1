// SPDX-License-Identifier: MIT

package coloring_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/branchprice/bap"
	"github.com/katalvlaran/branchprice/colgen"
	"github.com/katalvlaran/branchprice/coloring"
)

func keys(cols []*set) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key()
	}

	return out
}

func halfPentagon() []*set {
	cols := pentagonSets()
	for _, c := range cols {
		c.SetValue(0.5)
	}

	return cols
}

func TestRyanFoster_PicksMostFractionalPair(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	rf := coloring.NewRyanFoster(coloring.NewModel(g))
	assert.Equal(t, "ryan-foster", rf.Name())

	u, v, ok := rf.Pair(halfPentagon())
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 2}, [2]int{u, v})
	assert.True(t, rf.CanBranch(halfPentagon()))
}

func TestRyanFoster_IntegralSolutionHasNoPair(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	rf := coloring.NewRyanFoster(coloring.NewModel(g))

	cols := []*set{
		coloring.NewIndependentSet([]int{0, 2}, "test"),
		coloring.NewIndependentSet([]int{1, 3}, "test"),
		coloring.NewIndependentSet([]int{4}, "test"),
	}
	for _, c := range cols {
		c.SetValue(1)
	}
	assert.False(t, rf.CanBranch(cols))
}

func TestRyanFoster_SkipsDecidedPairs(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)
	rf := coloring.NewRyanFoster(model)

	differ := coloring.NewDiffer(model, 0, 2)
	differ.Apply()
	u, v, ok := rf.Pair(halfPentagon())
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 3}, [2]int{u, v})
	differ.Rewind()

	same := coloring.NewSame(model, 0, 2)
	same.Apply()
	u, v, ok = rf.Pair(halfPentagon())
	require.True(t, ok)
	assert.NotEqual(t, [2]int{0, 2}, [2]int{u, v})
	same.Rewind()
}

func TestRyanFoster_Branch(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)
	rf := coloring.NewRyanFoster(model)

	var (
		factory bap.NodeFactory[*set]
		cols    = halfPentagon()
		root    = factory.Root(append(cols, coloring.NewArtificial(5, 1e6)), nil, 2.5)
	)
	root.Solution = cols

	children := rf.Branch(root, &factory)
	require.Len(t, children, 2)
	same, differ := children[0], children[1]

	assert.Equal(t, "same(0,2)", same.LastDecision().String())
	assert.Equal(t, []string{"0,2", "1,3", "1,4"}, keys(same.Columns))
	assert.Equal(t, "differ(0,2)", differ.LastDecision().String())
	assert.Equal(t, []string{"1,3", "2,4", "0,3", "1,4"}, keys(differ.Columns))
	assert.Equal(t, 2.5, same.Bound)

	differ.LastDecision().Apply()
	assert.True(t, model.PricingGraph().HasEdge(0, 2))
	assert.False(t, g.HasEdge(0, 2), "the input graph is never touched")
	differ.LastDecision().Rewind()
	assert.False(t, model.PricingGraph().HasEdge(0, 2))

	same.LastDecision().Apply()
	assert.Equal(t, [][2]int{{0, 2}}, model.SamePairs())
	same.LastDecision().Rewind()
	assert.Empty(t, model.SamePairs())
}

func TestDecisions_Compatibility(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)

	same := coloring.NewSame(model, 0, 2)
	differ := coloring.NewDiffer(model, 0, 2)
	both := coloring.NewIndependentSet([]int{0, 2}, "test")
	one := coloring.NewIndependentSet([]int{0, 3}, "test")
	none := coloring.NewIndependentSet([]int{1, 3}, "test")
	art := coloring.NewArtificial(5, 1)

	assert.True(t, same.ColumnCompatible(both))
	assert.False(t, same.ColumnCompatible(one))
	assert.True(t, same.ColumnCompatible(none))
	assert.True(t, same.ColumnCompatible(art))

	assert.False(t, differ.ColumnCompatible(both))
	assert.True(t, differ.ColumnCompatible(one))
	assert.True(t, differ.ColumnCompatible(none))
	assert.True(t, differ.ColumnCompatible(art))

	cut := &coloring.RoundingCut{Min: 3}
	assert.True(t, same.InequalityCompatible(cut))
	assert.True(t, differ.InequalityCompatible(cut))
}

func TestDiffer_ExistingEdgeIsLeftAlone(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)

	d := coloring.NewDiffer(model, 0, 1)
	d.Apply()
	d.Rewind()
	assert.True(t, model.PricingGraph().HasEdge(0, 1))
}

func TestRoundingCuts(t *testing.T) {
	var gen coloring.RoundingCuts
	assert.Equal(t, "rounding", gen.Name())
	ctx := context.Background()

	found, err := gen.GenerateInequalities(ctx, halfPentagon())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "rounding>=3", found[0].Key())

	integral := pentagonSets()[:2]
	for _, c := range integral {
		c.SetValue(1)
	}
	found, err = gen.GenerateInequalities(ctx, integral)
	require.NoError(t, err)
	assert.Empty(t, found)

	art := coloring.NewArtificial(5, 1e6)
	art.SetValue(0.5)
	found, err = gen.GenerateInequalities(ctx, append(halfPentagon(), art))
	require.NoError(t, err)
	assert.Empty(t, found, "no cut while the artificial column is in use")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = gen.GenerateInequalities(cancelled, halfPentagon())
	assert.ErrorIs(t, err, context.Canceled)

	var _ colgen.CutGenerator[*set] = gen
}
