// SPDX-License-Identifier: MIT

// Package coloring: sentinel errors, options and the Coloring result.
package coloring

import (
	"errors"

	"github.com/katalvlaran/branchprice/bap"
	"github.com/katalvlaran/branchprice/lp"
)

// Sentinel errors. Messages are prefixed with "coloring: ".
var (
	// ErrVertexCount indicates a negative vertex count.
	ErrVertexCount = errors.New("coloring: vertex count must be ≥ 0")

	// ErrVertexOutOfRange indicates a vertex outside [0, n).
	ErrVertexOutOfRange = errors.New("coloring: vertex out of range")

	// ErrLoopNotAllowed indicates a self-loop; a looped vertex has no colour.
	ErrLoopNotAllowed = errors.New("coloring: self-loop not allowed")

	// ErrEdgeNotFound indicates removal of a missing edge.
	ErrEdgeNotFound = errors.New("coloring: edge not found")

	// ErrUnsupportedInequality indicates an inequality the master cannot model.
	ErrUnsupportedInequality = errors.New("coloring: unsupported inequality")

	// ErrMasterClosed indicates use of a Master after Close.
	ErrMasterClosed = errors.New("coloring: master closed")

	// ErrTooFewVertices indicates a constructor size below its minimum.
	ErrTooFewVertices = errors.New("coloring: too few vertices")

	// ErrNoColoring indicates that the search ended without any colouring.
	ErrNoColoring = errors.New("coloring: no colouring found")
)

const (
	// pricingProblemName labels the single pricing problem.
	pricingProblemName = "mwis"

	// Column creators.
	creatorGreedy     = "greedy"
	creatorExact      = "exact"
	creatorWarmStart  = "warm-start"
	creatorArtificial = "artificial"

	// eps is the reduced-cost and value tolerance.
	eps = 1e-6

	// stepMask: the exact search polls its deadline every 4096 node events.
	stepMask = 4095

	defaultMaxColumns = 5
)

const panicMaxColumnsInvalid = "coloring: WithMaxColumns: k must be ≥ 1"

// Options configures Solve and NewProblem.
type Options struct {
	// MaxColumns bounds the columns a pricing solver returns per call.
	MaxColumns int

	// WarmStart seeds the search with a first-fit colouring.
	WarmStart bool

	// Engine options are appended after the colouring defaults.
	Engine []bap.Option

	// LP options are passed to every master solve.
	LP []lp.Option
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns MaxColumns=5 with the warm start enabled.
func DefaultOptions() Options {
	return Options{MaxColumns: defaultMaxColumns, WarmStart: true}
}

// WithMaxColumns bounds the columns per pricing call. Panics if k < 1.
func WithMaxColumns(k int) Option {
	if k < 1 {
		panic(panicMaxColumnsInvalid)
	}

	return func(o *Options) { o.MaxColumns = k }
}

// WithWarmStart toggles the first-fit warm start.
func WithWarmStart(on bool) Option {
	return func(o *Options) { o.WarmStart = on }
}

// WithEngineOptions forwards options to bap.NewEngine.
func WithEngineOptions(opts ...bap.Option) Option {
	return func(o *Options) { o.Engine = append(o.Engine, opts...) }
}

// WithLPOptions forwards options to lp.Solve.
func WithLPOptions(opts ...lp.Option) Option {
	return func(o *Options) { o.LP = append(o.LP, opts...) }
}

// Coloring is the outcome of Solve.
type Coloring struct {
	// Colors[v] is the colour of vertex v, in [0, NumColors).
	Colors []int

	NumColors int

	// Optimal reports that NumColors is the chromatic number.
	Optimal bool

	// Bound is the proven lower bound on the chromatic number.
	Bound float64

	// Stats are the engine counters of the run.
	Stats bap.Stats
}
