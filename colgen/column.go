// SPDX-License-Identifier: MIT

package colgen

import "math"

// Column is a variable of the master problem generated by a pricing solver.
//
// A column is immutable after creation except for its value, which every
// master solve overwrites. Key identifies the column inside its pricing
// problem; two columns with the same Key are the same column.
type Column interface {
	// PricingProblem returns the ID of the pricing problem that owns the column.
	PricingProblem() int
	// Cost is the objective coefficient in the master.
	Cost() float64
	// Artificial reports a sentinel column used only to keep the master feasible.
	Artificial() bool
	// Creator names the solver (or component) that produced the column.
	Creator() string
	// Value is the column's value in the last master solution.
	Value() float64
	// SetValue is called by masters after each solve.
	SetValue(v float64)
	// Key identifies the column within its pricing problem.
	Key() string
}

// Inequality is a valid inequality (cut) owned by the master.
type Inequality interface {
	// Generator names the cut generator that separated the inequality.
	Generator() string
	// Key identifies the inequality; the master holds at most one per key.
	Key() string
}

// ColumnBase implements every Column method except Key.
// Embed it by value in a struct and use a pointer to that struct as the
// column type.
type ColumnBase struct {
	pricingProblem int
	cost           float64
	artificial     bool
	creator        string
	value          float64
}

// NewColumnBase returns the bookkeeping part of a column.
func NewColumnBase(pricingProblem int, cost float64, artificial bool, creator string) ColumnBase {
	return ColumnBase{
		pricingProblem: pricingProblem,
		cost:           cost,
		artificial:     artificial,
		creator:        creator,
	}
}

// PricingProblem implements Column.
func (c *ColumnBase) PricingProblem() int { return c.pricingProblem }

// Cost implements Column.
func (c *ColumnBase) Cost() float64 { return c.cost }

// Artificial implements Column.
func (c *ColumnBase) Artificial() bool { return c.artificial }

// Creator implements Column.
func (c *ColumnBase) Creator() string { return c.creator }

// Value implements Column.
func (c *ColumnBase) Value() float64 { return c.value }

// SetValue implements Column.
func (c *ColumnBase) SetValue(v float64) { c.value = v }

// HasArtificial reports whether any column of solution is artificial.
func HasArtificial[C Column](solution []C) bool {
	for _, col := range solution {
		if col.Artificial() {
			return true
		}
	}

	return false
}

// IntegralSolution reports whether every column value is within eps of an integer.
// It is the default integrality test of the engine.
func IntegralSolution[C Column](solution []C, eps float64) bool {
	var v float64
	for _, col := range solution {
		v = col.Value()
		if math.Abs(v-math.Round(v)) > eps {
			return false
		}
	}

	return true
}

// ObjectiveOf returns Σ cost·value over solution.
func ObjectiveOf[C Column](solution []C) float64 {
	var sum float64
	for _, col := range solution {
		sum += col.Cost() * col.Value()
	}

	return sum
}
