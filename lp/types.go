// SPDX-License-Identifier: MIT

// Package lp: problem description, options and sentinel errors.
package lp

import (
	"errors"
	"math"
)

// Sentinel errors. Messages are prefixed with "lp: ".
var (
	// ErrInfeasible: some row cannot be covered by the given columns.
	ErrInfeasible = errors.New("lp: covering program is infeasible")

	// ErrIterationLimit: the pivot budget ran out.
	ErrIterationLimit = errors.New("lp: pivot limit reached")

	// ErrTimeLimit: ctx was done before optimality.
	ErrTimeLimit = errors.New("lp: time limit exceeded")

	// ErrDimension: an entry references a row outside [0, Rows) or len(RHS) != Rows.
	ErrDimension = errors.New("lp: dimension mismatch")

	// ErrNegativeCost: a column cost is negative.
	ErrNegativeCost = errors.New("lp: negative column cost")

	// ErrNaNInf: a cost, coefficient or right-hand side is NaN or ±Inf.
	ErrNaNInf = errors.New("lp: NaN or Inf encountered")
)

// Entry is one non-zero coefficient of a column.
type Entry struct {
	Row   int
	Value float64
}

// Column is a sparse column of A with its cost.
type Column struct {
	Cost    float64
	Entries []Entry
}

// Problem is min cᵀx s.t. A x ≥ RHS, x ≥ 0.
type Problem struct {
	Rows    int
	RHS     []float64
	Columns []Column
}

// Solution is an optimal primal/dual pair.
type Solution struct {
	Objective float64
	Primal    []float64 // one value per column
	Duals     []float64 // one value per row, all ≥ 0
	Pivots    int
}

// Panic messages for invalid option arguments.
const (
	panicToleranceInvalid = "lp: WithTolerance: tol must be finite and > 0"
	panicPivotsInvalid    = "lp: WithMaxPivots: n must be ≥ 1"
)

const (
	defaultTolerance = 1e-9
	defaultMaxPivots = 100000

	// ctxCheckMask: ctx is polled every 64 pivots.
	ctxCheckMask = 63
)

// Options configures Solve.
type Options struct {
	Tolerance float64
	MaxPivots int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns tolerance 1e-9 and a 100000 pivot budget.
func DefaultOptions() Options {
	return Options{Tolerance: defaultTolerance, MaxPivots: defaultMaxPivots}
}

// WithTolerance sets the pivoting tolerance. Panics unless tol is finite and > 0.
func WithTolerance(tol float64) Option {
	if tol <= 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxPivots bounds the pivot count. Panics if n < 1.
func WithMaxPivots(n int) Option {
	if n < 1 {
		panic(panicPivotsInvalid)
	}

	return func(o *Options) { o.MaxPivots = n }
}
