// SPDX-License-Identifier: MIT

package coloring_test

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/branchprice/colgen"
	"github.com/katalvlaran/branchprice/coloring"
)

type (
	set    = coloring.IndependentSet
	solver = colgen.PricingSolver[*set]
)

// bruteForceMWIS enumerates every vertex subset.
func bruteForceMWIS(g *coloring.Graph, w []float64) float64 {
	var (
		n    = g.Order()
		best float64
	)
	for mask := 0; mask < 1<<n; mask++ {
		var (
			vs    []int
			total float64
		)
		for v := 0; v < n; v++ {
			if mask&(1<<v) != 0 {
				vs = append(vs, v)
				total += w[v]
			}
		}
		if total > best && g.IsIndependent(vs) {
			best = total
		}
	}

	return best
}

func TestMaxWeightIndependentSet_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 40; iter++ {
		n := 1 + rng.Intn(12)
		g, err := coloring.RandomGraph(n, rng.Float64(), rng.Int63())
		require.NoError(t, err)
		w := make([]float64, n)
		for v := range w {
			w[v] = rng.Float64()*2 - 0.5
		}

		got, weight, err := coloring.MaxWeightIndependentSet(context.Background(), g, w)
		require.NoError(t, err)
		assert.True(t, g.IsIndependent(got), "iteration %d: %v", iter, got)

		var sum float64
		for _, v := range got {
			sum += w[v]
		}
		assert.InDelta(t, sum, weight, 1e-9)
		assert.InDelta(t, bruteForceMWIS(g, w), weight, 1e-5, "iteration %d", iter)
	}
}

func TestMaxWeightIndependentSet_Errors(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	_, _, err = coloring.MaxWeightIndependentSet(context.Background(), g, []float64{1})
	assert.ErrorIs(t, err, coloring.ErrVertexCount)

	empty, err := coloring.NewGraph(0)
	require.NoError(t, err)
	vs, weight, err := coloring.MaxWeightIndependentSet(context.Background(), empty, nil)
	require.NoError(t, err)
	assert.Empty(t, vs)
	assert.Zero(t, weight)
}

// newSolvers instantiates both tiers over model for one pricing problem.
func newSolvers(t *testing.T, model *coloring.Model, duals []float64, constant float64) (greedy, exact solver) {
	t.Helper()
	pp := colgen.NewPricingProblem[*set](0, "mwis")
	pp.ModifiedCosts = duals
	pp.DualConstant = constant

	tiers := coloring.Tiers(model, 5)
	require.Len(t, tiers, 2)
	assert.Equal(t, "greedy", tiers[0].Name)
	assert.Equal(t, "exact", tiers[1].Name)

	var err error
	greedy, err = tiers[0].New(pp)
	require.NoError(t, err)
	exact, err = tiers[1].New(pp)
	require.NoError(t, err)
	greedy.SetObjective(pp)
	exact.SetObjective(pp)

	return greedy, exact
}

func repeat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func TestTiers_PriceOut(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)
	ctx := context.Background()

	greedy, exact := newSolvers(t, model, repeat(5, 0.6), 0)

	cols, err := greedy.GenerateColumns(ctx, time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, cols)
	assert.LessOrEqual(t, len(cols), 5)
	seen := make(map[string]bool)
	for _, c := range cols {
		assert.True(t, g.IsIndependent(c.Vertices))
		assert.Len(t, c.Vertices, 2)
		assert.Equal(t, "greedy", c.Creator())
		assert.False(t, seen[c.Key()], "duplicate %s", c.Key())
		seen[c.Key()] = true
	}
	assert.True(t, greedy.Feasible())

	cols, err = exact.GenerateColumns(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, []int{0, 2}, cols[0].Vertices)
	assert.Equal(t, 1.0, cols[0].Cost())
	bounder, ok := exact.(colgen.Bounder)
	require.True(t, ok)
	assert.InDelta(t, 1.2, bounder.Bound(), 1e-9)

	require.NoError(t, greedy.Close())
	require.NoError(t, exact.Close())
}

func TestTiers_NothingPricesOutAtTheFractionalOptimum(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	greedy, exact := newSolvers(t, coloring.NewModel(g), repeat(5, 0.5), 0)

	cols, err := greedy.GenerateColumns(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, cols)

	cols, err = exact.GenerateColumns(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, cols)
	assert.InDelta(t, 1.0, exact.(colgen.Bounder).Bound(), 1e-9)
}

func TestTiers_DualConstantShiftsThreshold(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	_, exact := newSolvers(t, coloring.NewModel(g), repeat(5, 0.5), 0.2)

	cols, err := exact.GenerateColumns(context.Background(), time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, cols)
	assert.InDelta(t, 1.2, exact.(colgen.Bounder).Bound(), 1e-9)
}

func TestTiers_HonourBranchingDecisions(t *testing.T) {
	g, err := coloring.Cycle(5)
	require.NoError(t, err)
	model := coloring.NewModel(g)
	ctx := context.Background()

	differ := coloring.NewDiffer(model, 0, 2)
	differ.Apply()
	greedy, exact := newSolvers(t, model, repeat(5, 0.6), 0)
	for _, s := range []solver{greedy, exact} {
		cols, err := s.GenerateColumns(ctx, time.Time{})
		require.NoError(t, err)
		require.NotEmpty(t, cols)
		for _, c := range cols {
			assert.False(t, c.Contains(0) && c.Contains(2), "differ(0,2) violated by %s", c)
		}
	}
	differ.Rewind()
	assert.False(t, model.PricingGraph().HasEdge(0, 2))

	same := coloring.NewSame(model, 0, 2)
	same.Apply()
	greedy, exact = newSolvers(t, model, repeat(5, 0.6), 0)
	for _, s := range []solver{greedy, exact} {
		cols, err := s.GenerateColumns(ctx, time.Time{})
		require.NoError(t, err)
		require.NotEmpty(t, cols)
		for _, c := range cols {
			assert.Equal(t, c.Contains(0), c.Contains(2), "same(0,2) violated by %s", c)
			assert.True(t, g.IsIndependent(c.Vertices))
		}
	}
	same.Rewind()
	assert.Empty(t, model.SamePairs())
}

func TestExactTier_DeadlineIsTimeLimit(t *testing.T) {
	g, err := coloring.RandomGraph(60, 0.2, 11)
	require.NoError(t, err)
	_, exact := newSolvers(t, coloring.NewModel(g), repeat(60, 0.1), 0)

	_, err = exact.GenerateColumns(context.Background(), time.Now().Add(-time.Second))
	assert.ErrorIs(t, err, colgen.ErrTimeLimit)
}

func TestFarleyBound(t *testing.T) {
	cases := []struct {
		name      string
		objective float64
		bounds    []float64
		want      float64
	}{
		{"scaled", 2.5, []float64{1.25}, 2.0},
		{"capped at the objective", 2.5, []float64{0.9}, 2.5},
		{"heuristic tier only", 3, []float64{math.NaN()}, math.Inf(-1)},
		{"no pricing problem", 3, nil, math.Inf(-1)},
		{"degenerate", 3, []float64{0}, math.Inf(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, coloring.FarleyBound(tc.objective, tc.bounds))
		})
	}
}
