// SPDX-License-Identifier: MIT

// Package colgen: functional options for Loop and PricingManager.
//
// Constructors panic on nonsensical values (programmer error); defaults are
// documented on DefaultLoopOptions and DefaultManagerOptions.
package colgen

import (
	"log/slog"
	"math"
	"runtime"
	"time"
)

const (
	panicPrecisionInvalid   = "colgen: WithPrecision: precision must be finite and > 0"
	panicParallelismInvalid = "colgen: WithMaxParallelism: n must be ≥ 1"
)

// IterationEvent describes one finished column-generation iteration.
// Observers receive a copy and cannot influence the loop.
type IterationEvent struct {
	Iteration   int
	Objective   float64
	Bound       float64
	Tier        int
	Columns     int
	Cuts        int
	MasterTime  time.Duration
	PricingTime time.Duration
}

// LoopOptions configures a Loop.
type LoopOptions struct {
	// Sense is the optimisation direction of the master.
	Sense Sense

	// Precision is the tolerance used for gap and cutoff comparisons.
	Precision float64

	// IntegralObjective allows rounding bounds before the cutoff test.
	IntegralObjective bool

	// Bound computes a bound on the master objective after each tier.
	// Nil means DefaultBound(Sense).
	Bound BoundFunc

	// Logger receives Debug records per iteration.
	Logger *slog.Logger

	// OnIteration, if non-nil, is invoked after every iteration.
	OnIteration func(IterationEvent)
}

// LoopOption mutates LoopOptions.
type LoopOption func(*LoopOptions)

// DefaultLoopOptions returns:
//   - Sense: Minimize
//   - Precision: 1e-6
//   - IntegralObjective: true
//   - Bound: DefaultBound(Minimize)
//   - Logger: slog.Default()
func DefaultLoopOptions() LoopOptions {
	return LoopOptions{
		Sense:             Minimize,
		Precision:         defaultPrecision,
		IntegralObjective: true,
		Logger:            slog.Default(),
	}
}

// WithSense sets the optimisation direction.
func WithSense(s Sense) LoopOption {
	return func(o *LoopOptions) { o.Sense = s }
}

// WithPrecision sets the comparison tolerance.
func WithPrecision(eps float64) LoopOption {
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicPrecisionInvalid)
	}

	return func(o *LoopOptions) { o.Precision = eps }
}

// WithIntegralObjective toggles bound rounding in the cutoff test.
func WithIntegralObjective(on bool) LoopOption {
	return func(o *LoopOptions) { o.IntegralObjective = on }
}

// WithBound installs a custom bound computation.
func WithBound(fn BoundFunc) LoopOption {
	return func(o *LoopOptions) { o.Bound = fn }
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) LoopOption {
	return func(o *LoopOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithIterationObserver installs fn as the per-iteration hook.
func WithIterationObserver(fn func(IterationEvent)) LoopOption {
	return func(o *LoopOptions) { o.OnIteration = fn }
}

// DefaultBound is the bound used when none is configured: 0 when minimising
// (the objective is assumed non-negative) and no information when maximising.
func DefaultBound(s Sense) BoundFunc {
	return func(float64, []float64) float64 {
		if s == Maximize {
			return s.Weakest()
		}

		return 0
	}
}

// ManagerOptions configures a PricingManager.
type ManagerOptions struct {
	// MaxParallelism bounds the number of solvers running at once.
	MaxParallelism int

	// Logger receives Debug records per tier.
	Logger *slog.Logger
}

// ManagerOption mutates ManagerOptions.
type ManagerOption func(*ManagerOptions)

// DefaultManagerOptions returns MaxParallelism=runtime.NumCPU() and slog.Default().
func DefaultManagerOptions() ManagerOptions {
	return ManagerOptions{
		MaxParallelism: runtime.NumCPU(),
		Logger:         slog.Default(),
	}
}

// WithMaxParallelism bounds the pricing worker pool.
func WithMaxParallelism(n int) ManagerOption {
	if n < 1 {
		panic(panicParallelismInvalid)
	}

	return func(o *ManagerOptions) { o.MaxParallelism = n }
}

// WithManagerLogger sets the manager's logger. A nil logger keeps the default.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(o *ManagerOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}
