// SPDX-License-Identifier: MIT

package bap

import (
	"log/slog"
	"math"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/branchprice/colgen"
)

// Panic messages for invalid option arguments.
const (
	panicTimeLimitNegative  = "bap: WithTimeLimit: limit must be ≥ 0"
	panicParallelismInvalid = "bap: WithMaxParallelism: n must be ≥ 1"
	panicPrecisionInvalid   = "bap: WithPrecision: precision must be finite and > 0"
	panicArtificialInvalid  = "bap: WithArtificialCost: cost must be finite and > 0"
	panicLessNil            = "bap: WithNodeLess: less must not be nil"
)

// DefaultArtificialCost is the objective coefficient of artificial columns.
const DefaultArtificialCost = 1e6

// Options configures an Engine.
type Options struct {
	Sense colgen.Sense

	// Order is the built-in node selection rule; Less overrides it when set.
	Order NodeOrder
	Less  Less

	// TimeLimit bounds one Run; 0 means no limit besides ctx.
	TimeLimit time.Duration

	// MaxParallelism bounds concurrent pricing solvers.
	MaxParallelism int

	// Precision is the tolerance of every bound and integrality comparison.
	Precision float64

	// IntegralObjective enables rounding of bounds before pruning.
	IntegralObjective bool

	// CutsEnabled turns the problem's cut generators on.
	CutsEnabled bool

	// ArtificialCost is handed to Problem.Artificial for non-root nodes.
	ArtificialCost float64

	// Bound computes the node bound from master objective and pricing bounds.
	Bound colgen.BoundFunc

	Logger            *slog.Logger
	Observers         []Observer
	IterationObserver func(node int, ev colgen.IterationEvent)
	Metrics           *Metrics
	TracerProvider    trace.TracerProvider
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults: minimise, depth-first, no time limit,
// NumCPU pricing workers, precision 1e-6, integral objective, cuts enabled.
func DefaultOptions() Options {
	return Options{
		Sense:             colgen.Minimize,
		Order:             DepthFirst,
		MaxParallelism:    runtime.NumCPU(),
		Precision:         1e-6,
		IntegralObjective: true,
		CutsEnabled:       true,
		ArtificialCost:    DefaultArtificialCost,
		Logger:            slog.Default(),
	}
}

// WithSense sets the optimisation direction.
func WithSense(s colgen.Sense) Option {
	return func(o *Options) { o.Sense = s }
}

// WithNodeOrder selects a built-in node selection rule.
func WithNodeOrder(order NodeOrder) Option {
	return func(o *Options) { o.Order = order }
}

// WithNodeLess installs a custom node selection rule.
// Panics if less is nil.
func WithNodeLess(less Less) Option {
	if less == nil {
		panic(panicLessNil)
	}

	return func(o *Options) { o.Less = less }
}

// WithTimeLimit bounds every Run call. Panics if d < 0.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic(panicTimeLimitNegative)
	}

	return func(o *Options) { o.TimeLimit = d }
}

// WithMaxParallelism bounds concurrent pricing solvers. Panics if n < 1.
func WithMaxParallelism(n int) Option {
	if n < 1 {
		panic(panicParallelismInvalid)
	}

	return func(o *Options) { o.MaxParallelism = n }
}

// WithPrecision sets the comparison tolerance. Panics unless eps is finite and > 0.
func WithPrecision(eps float64) Option {
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicPrecisionInvalid)
	}

	return func(o *Options) { o.Precision = eps }
}

// WithIntegralObjective toggles bound rounding.
func WithIntegralObjective(on bool) Option {
	return func(o *Options) { o.IntegralObjective = on }
}

// WithCuts toggles cut separation.
func WithCuts(on bool) Option {
	return func(o *Options) { o.CutsEnabled = on }
}

// WithArtificialCost sets the artificial column cost. Panics unless cost is finite and > 0.
func WithArtificialCost(cost float64) Option {
	if cost <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		panic(panicArtificialInvalid)
	}

	return func(o *Options) { o.ArtificialCost = cost }
}

// WithBound installs a problem-specific node bound.
func WithBound(fn colgen.BoundFunc) Option {
	return func(o *Options) { o.Bound = fn }
}

// WithLogger sets the structured logger. nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithObserver appends a search event observer.
func WithObserver(fn Observer) Option {
	return func(o *Options) {
		if fn != nil {
			o.Observers = append(o.Observers, fn)
		}
	}
}

// WithIterationObserver receives every column generation iteration together
// with the id of the node being solved.
func WithIterationObserver(fn func(node int, ev colgen.IterationEvent)) Option {
	return func(o *Options) { o.IterationObserver = fn }
}

// WithMetrics reports search progress to m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithTracerProvider sets the OpenTelemetry provider; the global one is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) { o.TracerProvider = tp }
}
