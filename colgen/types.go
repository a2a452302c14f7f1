// SPDX-License-Identifier: MIT

// Package colgen: sentinel errors, solver status and optimisation sense.
//
// Every message is prefixed with "colgen: ". Callers match with errors.Is;
// the manager and the loop wrap with context via fmt.Errorf("...: %w").
package colgen

import (
	"errors"
	"math"
)

var (
	// ErrTimeLimit is returned by every deadline-bound operation whose
	// deadline passed before it could finish. It is recoverable at engine level.
	ErrTimeLimit = errors.New("colgen: time limit exceeded")

	// ErrDuplicateColumn signals that a pricing solver generated a column that
	// is already active for its pricing problem. It is a programming error in
	// the reduced-cost computation and must not be recovered from.
	ErrDuplicateColumn = errors.New("colgen: duplicate column generated")

	// ErrMasterUndecided indicates a master solve that returned neither an
	// error nor a verdict; its objective cannot be trusted.
	ErrMasterUndecided = errors.New("colgen: master solve undecided")

	// ErrNilMaster indicates a nil Master was passed to NewLoop.
	ErrNilMaster = errors.New("colgen: master is nil")

	// ErrNilManager indicates a nil PricingManager was passed to NewLoop.
	ErrNilManager = errors.New("colgen: pricing manager is nil")

	// ErrNoPricing indicates that no pricing problems were supplied.
	ErrNoPricing = errors.New("colgen: no pricing problems")

	// ErrNoTiers indicates that no pricing tiers were supplied.
	ErrNoTiers = errors.New("colgen: no pricing tiers")

	// ErrNilFactory indicates that a Tier has no solver factory.
	ErrNilFactory = errors.New("colgen: tier has nil solver factory")

	// ErrPricingIndex indicates that PricingProblem.ID does not match its
	// position in the pricing slice.
	ErrPricingIndex = errors.New("colgen: pricing problem id does not match its index")

	// ErrUnknownPricingProblem indicates a column that references a pricing
	// problem the manager does not know.
	ErrUnknownPricingProblem = errors.New("colgen: column references unknown pricing problem")

	// ErrBadTier indicates a tier index outside [0, Tiers()).
	ErrBadTier = errors.New("colgen: tier index out of range")

	// ErrManagerClosed indicates use of a PricingManager after Close.
	ErrManagerClosed = errors.New("colgen: pricing manager closed")
)

// SolverStatus is the outcome of a master solve.
type SolverStatus int

const (
	// StatusUndecided means the solver returned without a verdict.
	StatusUndecided SolverStatus = iota
	// StatusOptimal means the restricted master was solved to optimality.
	StatusOptimal
	// StatusInfeasible means the restricted master has no feasible point.
	StatusInfeasible
	// StatusTimedOut means the deadline passed before the solve finished.
	StatusTimedOut
)

// String implements fmt.Stringer.
func (s SolverStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimedOut:
		return "timed-out"
	default:
		return "undecided"
	}
}

// Sense is the optimisation direction of the master problem.
// All bound and incumbent comparisons in colgen and bap go through it.
type Sense int

const (
	// Minimize is the default sense: bounds are lower bounds.
	Minimize Sense = iota
	// Maximize flips every comparison: bounds are upper bounds.
	Maximize
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}

	return "minimize"
}

// Worst returns the objective value every solution improves on
// (+Inf when minimising). It is the incumbent before any solution is known.
func (s Sense) Worst() float64 {
	if s == Maximize {
		return math.Inf(-1)
	}

	return math.Inf(1)
}

// Weakest returns the bound that carries no information (−Inf when minimising).
func (s Sense) Weakest() float64 { return -s.Worst() }

// Better reports whether a is strictly better than b by more than eps.
func (s Sense) Better(a, b, eps float64) bool {
	if s == Maximize {
		return a > b+eps
	}

	return a < b-eps
}

// Worse reports whether a is strictly worse than b by more than eps.
func (s Sense) Worse(a, b, eps float64) bool { return s.Better(b, a, eps) }

// Tighter returns the more informative of two bounds
// (the larger one when minimising). A NaN operand carries no information
// and yields the other one.
func (s Sense) Tighter(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	case s == Maximize:
		return math.Min(a, b)
	default:
		return math.Max(a, b)
	}
}

// Looser returns the less informative of two bounds
// (the smaller one when minimising). NaN operands are ignored as in Tighter.
func (s Sense) Looser(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	case s == Maximize:
		return math.Max(a, b)
	default:
		return math.Min(a, b)
	}
}

// Round rounds a bound towards the inside of the feasible objective range,
// which is valid whenever every integer solution has an integral objective:
// ceil(v−eps) when minimising, floor(v+eps) when maximising.
// Infinite values are returned unchanged.
func (s Sense) Round(v, eps float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	if s == Maximize {
		return math.Floor(v + eps)
	}

	return math.Ceil(v - eps)
}

// defaultPrecision is the tolerance used when callers do not configure one.
const defaultPrecision = 1e-6
