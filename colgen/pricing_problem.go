// SPDX-License-Identifier: MIT

package colgen

import (
	"fmt"
	"math"
	"slices"
)

// PricingProblem carries the dual information a pricing solver needs and the
// set of columns currently active for it.
//
// ModifiedCosts and DualConstant are written by Master.InitializePricingProblem
// on the control goroutine once per iteration, and only read while a tier runs.
// Bound is the last value reported by a solver implementing Bounder (NaN when
// none did).
type PricingProblem[C Column] struct {
	// ID is the index of the pricing problem in the manager's slice.
	ID int

	// Name is a human-readable label used in logs and errors.
	Name string

	// ModifiedCosts holds the dual-adjusted coefficients of the pricing objective.
	ModifiedCosts []float64

	// DualConstant is the part of the reduced cost that does not depend on
	// the column's structure (e.g. a convexity dual).
	DualConstant float64

	// Bound is the last bound on the pricing objective reported by a solver.
	Bound float64

	active map[string]C
	order  []C
}

// NewPricingProblem returns an empty pricing problem.
func NewPricingProblem[C Column](id int, name string) *PricingProblem[C] {
	return &PricingProblem[C]{
		ID:     id,
		Name:   name,
		Bound:  math.NaN(),
		active: make(map[string]C),
	}
}

// ActiveColumns returns the active columns in insertion order.
// The slice is a copy; the columns are shared.
func (pp *PricingProblem[C]) ActiveColumns() []C { return slices.Clone(pp.order) }

// HasColumn reports whether a column with key is active.
func (pp *PricingProblem[C]) HasColumn(key string) bool {
	_, ok := pp.active[key]

	return ok
}

// String implements fmt.Stringer.
func (pp *PricingProblem[C]) String() string {
	if pp.Name != "" {
		return pp.Name
	}

	return fmt.Sprintf("pricing-%d", pp.ID)
}

// resetColumns empties the active set. Called when a node's loop starts.
func (pp *PricingProblem[C]) resetColumns() {
	clear(pp.active)
	pp.order = pp.order[:0]
}

// seedColumn registers a column inherited by the node; repeated keys are ignored.
func (pp *PricingProblem[C]) seedColumn(col C) {
	var key = col.Key()
	if _, ok := pp.active[key]; ok {
		return
	}
	pp.active[key] = col
	pp.order = append(pp.order, col)
}

// addColumn registers a freshly generated column.
// A key that is already active yields ErrDuplicateColumn.
func (pp *PricingProblem[C]) addColumn(col C) error {
	var key = col.Key()
	if _, ok := pp.active[key]; ok {
		return fmt.Errorf("%s: column %q by %s: %w", pp, key, col.Creator(), ErrDuplicateColumn)
	}
	pp.active[key] = col
	pp.order = append(pp.order, col)

	return nil
}
