// SPDX-License-Identifier: MIT

package lp

import (
	"context"
	"fmt"
	"math"
)

// Solve computes an optimal primal/dual pair of p.
//
// Errors: ErrDimension, ErrNegativeCost, ErrNaNInf on bad input;
// ErrInfeasible, ErrIterationLimit, ErrTimeLimit (wrapping ctx.Err()).
//
// A program without columns is feasible only when every RHS is ≤ 0.
func Solve(ctx context.Context, p Problem, opts ...Option) (Solution, error) {
	var cfg = DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(p); err != nil {
		return Solution{}, err
	}

	var (
		m   = p.Rows
		n   = len(p.Columns)
		tol = cfg.Tolerance
		t   = newTableau(n, m+n)
	)

	// Dual constraint j: Σ_i A_ij y_i + s_j = c_j; s_j starts basic.
	for j, col := range p.Columns {
		for _, e := range col.Entries {
			t.set(j, e.Row, t.at(j, e.Row)+e.Value)
		}
		t.set(j, m+j, 1)
		t.set(j, m+n, col.Cost)
		t.basis[j] = m + j
	}
	// Objective row of max bᵀy: z − bᵀy = 0.
	for i := 0; i < m; i++ {
		t.set(n, i, -p.RHS[i])
	}

	var pivots int
	for {
		if pivots&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return Solution{Pivots: pivots}, fmt.Errorf("%w: %w", ErrTimeLimit, err)
			}
		}
		c := t.entering(tol)
		if c < 0 {
			break
		}
		if pivots >= cfg.MaxPivots {
			return Solution{Pivots: pivots}, ErrIterationLimit
		}
		r := t.leaving(c, tol)
		if r < 0 {
			return Solution{Pivots: pivots}, ErrInfeasible
		}
		t.pivot(r, c)
		pivots++
	}

	sol := Solution{
		Objective: t.rhs(n),
		Primal:    make([]float64, n),
		Duals:     make([]float64, m),
		Pivots:    pivots,
	}
	for r, v := range t.basis {
		if v < m {
			sol.Duals[v] = clean(t.rhs(r), tol)
		}
	}
	obj := t.objective()
	for j := 0; j < n; j++ {
		sol.Primal[j] = clean(obj[m+j], tol)
	}

	return sol, nil
}

// validate checks dimensions and the numeric policy.
func validate(p Problem) error {
	if p.Rows < 0 || len(p.RHS) != p.Rows {
		return ErrDimension
	}
	for i, b := range p.RHS {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("rhs %d: %w", i, ErrNaNInf)
		}
	}
	for j, col := range p.Columns {
		if math.IsNaN(col.Cost) || math.IsInf(col.Cost, 0) {
			return fmt.Errorf("column %d: %w", j, ErrNaNInf)
		}
		if col.Cost < 0 {
			return fmt.Errorf("column %d: %w", j, ErrNegativeCost)
		}
		for _, e := range col.Entries {
			if e.Row < 0 || e.Row >= p.Rows {
				return fmt.Errorf("column %d, row %d: %w", j, e.Row, ErrDimension)
			}
			if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
				return fmt.Errorf("column %d, row %d: %w", j, e.Row, ErrNaNInf)
			}
		}
	}

	return nil
}

// clean snaps tiny values to zero.
func clean(v, tol float64) float64 {
	if math.Abs(v) <= tol {
		return 0
	}

	return v
}
