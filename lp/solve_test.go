// SPDX-License-Identifier: MIT

package lp_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/branchprice/lp"
)

const tol = 1e-7

// set builds a unit-cost 0/1 column over rows.
func set(cost float64, rows ...int) lp.Column {
	col := lp.Column{Cost: cost}
	for _, r := range rows {
		col.Entries = append(col.Entries, lp.Entry{Row: r, Value: 1})
	}

	return col
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}

	return out
}

func TestSolve_FractionalColouringOfC5(t *testing.T) {
	p := lp.Problem{
		Rows: 5,
		RHS:  ones(5),
		Columns: []lp.Column{
			set(1, 0, 2), set(1, 1, 3), set(1, 2, 4), set(1, 3, 0), set(1, 4, 1),
		},
	}

	sol, err := lp.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, sol.Objective, tol)
	for j, x := range sol.Primal {
		assert.InDelta(t, 0.5, x, tol, "x[%d]", j)
	}
	for i, y := range sol.Duals {
		assert.InDelta(t, 0.5, y, tol, "y[%d]", i)
	}
	assert.GreaterOrEqual(t, sol.Pivots, 5)
}

func TestSolve_PicksCheapestCover(t *testing.T) {
	p := lp.Problem{
		Rows: 3,
		RHS:  ones(3),
		Columns: []lp.Column{
			set(1, 0), set(1, 1), set(1, 2),
			set(2, 0, 1, 2),
		},
	}

	sol, err := lp.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sol.Objective, tol)
	assert.InDelta(t, 1.0, sol.Primal[3], tol)
	var dualSum float64
	for _, y := range sol.Duals {
		dualSum += y
	}
	assert.InDelta(t, 2.0, dualSum, tol)
}

func TestSolve_GeneralCoefficientsAndRHS(t *testing.T) {
	// min x0 + x1  s.t.  x0 ≥ 1, x1 ≥ 1, x0 + x1 ≥ 3
	p := lp.Problem{
		Rows: 3,
		RHS:  []float64{1, 1, 3},
		Columns: []lp.Column{
			{Cost: 1, Entries: []lp.Entry{{Row: 0, Value: 1}, {Row: 2, Value: 1}}},
			{Cost: 1, Entries: []lp.Entry{{Row: 1, Value: 1}, {Row: 2, Value: 1}}},
		},
	}

	sol, err := lp.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, sol.Objective, tol)
	assert.InDelta(t, 3.0, sol.Primal[0]+sol.Primal[1], tol)
}

func TestSolve_Infeasible(t *testing.T) {
	p := lp.Problem{Rows: 2, RHS: ones(2), Columns: []lp.Column{set(1, 0)}}

	_, err := lp.Solve(context.Background(), p)
	assert.ErrorIs(t, err, lp.ErrInfeasible)

	_, err = lp.Solve(context.Background(), lp.Problem{Rows: 1, RHS: ones(1)})
	assert.ErrorIs(t, err, lp.ErrInfeasible)
}

func TestSolve_Validation(t *testing.T) {
	cases := []struct {
		name string
		p    lp.Problem
		want error
	}{
		{"rhs length", lp.Problem{Rows: 2, RHS: ones(1)}, lp.ErrDimension},
		{"row range", lp.Problem{Rows: 1, RHS: ones(1), Columns: []lp.Column{set(1, 3)}}, lp.ErrDimension},
		{"negative cost", lp.Problem{Rows: 1, RHS: ones(1), Columns: []lp.Column{set(-1, 0)}}, lp.ErrNegativeCost},
		{"nan cost", lp.Problem{Rows: 1, RHS: ones(1), Columns: []lp.Column{set(math.NaN(), 0)}}, lp.ErrNaNInf},
		{"inf rhs", lp.Problem{Rows: 1, RHS: []float64{math.Inf(1)}}, lp.ErrNaNInf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lp.Solve(context.Background(), tc.p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSolve_Limits(t *testing.T) {
	p := lp.Problem{
		Rows:    5,
		RHS:     ones(5),
		Columns: []lp.Column{set(1, 0, 2), set(1, 1, 3), set(1, 2, 4), set(1, 3, 0), set(1, 4, 1)},
	}

	_, err := lp.Solve(context.Background(), p, lp.WithMaxPivots(1))
	assert.ErrorIs(t, err, lp.ErrIterationLimit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lp.Solve(ctx, p)
	assert.ErrorIs(t, err, lp.ErrTimeLimit)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Panics(t, func() { lp.WithMaxPivots(0) })
	assert.Panics(t, func() { lp.WithTolerance(0) })
}

func TestSolve_RandomProgramsSatisfyDuality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		m := 1 + rng.Intn(8)
		n := 1 + rng.Intn(12)
		p := lp.Problem{Rows: m, RHS: make([]float64, m)}
		for i := range p.RHS {
			p.RHS[i] = float64(1 + rng.Intn(2))
		}
		for j := 0; j < n; j++ {
			col := lp.Column{Cost: float64(1 + rng.Intn(5))}
			for i := 0; i < m; i++ {
				if rng.Intn(3) == 0 {
					col.Entries = append(col.Entries, lp.Entry{Row: i, Value: float64(1 + rng.Intn(2))})
				}
			}
			p.Columns = append(p.Columns, col)
		}
		all := make([]int, m)
		for i := range all {
			all[i] = i
		}
		p.Columns = append(p.Columns, set(25, all...))

		sol, err := lp.Solve(context.Background(), p)
		require.NoError(t, err, "iteration %d", iter)
		checkOptimality(t, p, sol)
	}
}

// checkOptimality verifies primal and dual feasibility and a zero duality gap.
func checkOptimality(t *testing.T, p lp.Problem, sol lp.Solution) {
	t.Helper()
	cover := make([]float64, p.Rows)
	var primal, dual float64
	for j, col := range p.Columns {
		x := sol.Primal[j]
		require.GreaterOrEqual(t, x, -tol)
		primal += col.Cost * x
		var reduced = col.Cost
		for _, e := range col.Entries {
			cover[e.Row] += e.Value * x
			reduced -= e.Value * sol.Duals[e.Row]
		}
		require.GreaterOrEqual(t, reduced, -1e-6, "dual constraint %d", j)
	}
	for i, b := range p.RHS {
		require.GreaterOrEqual(t, cover[i], b-1e-6, "row %d", i)
		require.GreaterOrEqual(t, sol.Duals[i], -tol)
		dual += b * sol.Duals[i]
	}
	require.InDelta(t, primal, dual, 1e-6)
	require.InDelta(t, primal, sol.Objective, 1e-6)
}
