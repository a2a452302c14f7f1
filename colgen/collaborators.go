// SPDX-License-Identifier: MIT

package colgen

import (
	"context"
	"time"
)

// Master is the restricted master problem of one search node.
//
// A Master is owned by the control goroutine: none of its methods are called
// concurrently, and it is never touched while a pricing tier runs.
type Master[C Column] interface {
	// Solve optimises the restricted master. Implementations report a missed
	// deadline with StatusTimedOut (or ErrTimeLimit); a non-nil error other
	// than ErrTimeLimit aborts the search.
	Solve(ctx context.Context, deadline time.Time) (SolverStatus, error)

	// Objective returns the objective value of the last solve.
	Objective() float64

	// AddColumn adds a column to the master (and to every inequality it touches).
	AddColumn(col C) error

	// Columns returns every column currently in the master.
	Columns() []C

	// Solution returns the columns with a non-zero value in the last solve.
	Solution() []C

	// InitializePricingProblem writes the current duals into pp.
	InitializePricingProblem(pp *PricingProblem[C])

	// AddInequality adds a cut and registers it against existing columns.
	AddInequality(ineq Inequality) error

	// Inequalities returns every cut currently in the master.
	Inequalities() []Inequality

	// Close releases solver resources. Called once per node.
	Close() error
}

// PricingSolver searches for columns with an improving reduced cost for one
// pricing problem. Each instance is used by at most one goroutine at a time.
type PricingSolver[C Column] interface {
	// SetObjective refreshes the solver's objective from pp's dual information.
	SetObjective(pp *PricingProblem[C])

	// GenerateColumns returns the improving columns found before deadline
	// (empty when none exists). A missed deadline is reported as ErrTimeLimit.
	GenerateColumns(ctx context.Context, deadline time.Time) ([]C, error)

	// Feasible reports whether the last GenerateColumns found the pricing
	// problem feasible at all. An infeasible pricing problem makes the node infeasible.
	Feasible() bool

	// Close releases the solver. Called once, by PricingManager.Close.
	Close() error
}

// Bounder is implemented by pricing solvers that can bound the optimum of
// their pricing objective after GenerateColumns (typically exact solvers).
type Bounder interface {
	Bound() float64
}

// SolverFactory builds the solver instance of one tier for one pricing problem.
type SolverFactory[C Column] func(pp *PricingProblem[C]) (PricingSolver[C], error)

// Tier is one pricing algorithm. Tiers are tried cheapest first; the last one
// is expected to be exact.
type Tier[C Column] struct {
	Name string
	New  SolverFactory[C]
}

// CutGenerator separates one family of valid inequalities.
type CutGenerator[C Column] interface {
	// Name identifies the generator in logs and in Inequality.Generator.
	Name() string

	// GenerateInequalities returns inequalities violated by the fractional
	// point described by solution (columns with their values).
	GenerateInequalities(ctx context.Context, solution []C) ([]Inequality, error)
}

// BoundFunc computes a bound on the master objective from the current master
// objective and the per-pricing-problem bounds reported in this iteration
// (NaN entries when a solver reported none).
type BoundFunc func(objective float64, pricingBounds []float64) float64
