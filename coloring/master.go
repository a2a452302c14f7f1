// SPDX-License-Identifier: MIT

package coloring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/katalvlaran/branchprice/colgen"
	"github.com/katalvlaran/branchprice/lp"
)

// Master is the restricted covering LP of one node:
//
//	min Σ x_S  s.t.  Σ_{S∋v} x_S ≥ 1 for every vertex v,
//	                 Σ_S x_S ≥ k   for every rounding cut,  x ≥ 0.
//
// It implements colgen.Master[*IndependentSet] on top of lp.Solve.
type Master struct {
	n         int
	columns   []*IndependentSet
	keys      map[string]struct{}
	cuts      []*RoundingCut
	duals     []float64
	cutDuals  []float64
	objective float64
	lpOpts    []lp.Option
	closed    bool
}

// NewMaster returns the master of an n-vertex graph seeded with columns and
// inequalities.
func NewMaster(n int, columns []*IndependentSet, inequalities []colgen.Inequality, opts ...lp.Option) (*Master, error) {
	if n < 0 {
		return nil, ErrVertexCount
	}
	m := &Master{
		n:      n,
		keys:   make(map[string]struct{}, len(columns)),
		duals:  make([]float64, n),
		lpOpts: opts,
	}
	for _, col := range columns {
		if err := m.AddColumn(col); err != nil {
			return nil, err
		}
	}
	for _, ineq := range inequalities {
		if err := m.AddInequality(ineq); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Solve implements colgen.Master. A missed deadline is StatusTimedOut; an
// uncoverable vertex is StatusInfeasible.
func (m *Master) Solve(ctx context.Context, deadline time.Time) (colgen.SolverStatus, error) {
	if m.closed {
		return colgen.StatusUndecided, ErrMasterClosed
	}
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	sol, err := lp.Solve(ctx, m.program(), m.lpOpts...)
	switch {
	case errors.Is(err, context.Canceled):
		return colgen.StatusUndecided, err
	case errors.Is(err, lp.ErrTimeLimit):
		return colgen.StatusTimedOut, nil
	case errors.Is(err, lp.ErrInfeasible):
		return colgen.StatusInfeasible, nil
	case err != nil:
		return colgen.StatusUndecided, fmt.Errorf("master: %w", err)
	}

	m.objective = sol.Objective
	for j, col := range m.columns {
		col.SetValue(sol.Primal[j])
	}
	m.duals = slices.Clone(sol.Duals[:m.n])
	m.cutDuals = slices.Clone(sol.Duals[m.n:])

	return colgen.StatusOptimal, nil
}

// program builds the LP: vertex rows first, then one row per cut.
func (m *Master) program() lp.Problem {
	rows := m.n + len(m.cuts)
	p := lp.Problem{
		Rows:    rows,
		RHS:     make([]float64, rows),
		Columns: make([]lp.Column, len(m.columns)),
	}
	for v := 0; v < m.n; v++ {
		p.RHS[v] = 1
	}
	for k, cut := range m.cuts {
		p.RHS[m.n+k] = float64(cut.Min)
	}
	for j, col := range m.columns {
		entries := make([]lp.Entry, 0, len(col.Vertices)+len(m.cuts))
		for _, v := range col.Vertices {
			entries = append(entries, lp.Entry{Row: v, Value: 1})
		}
		for k := range m.cuts {
			entries = append(entries, lp.Entry{Row: m.n + k, Value: 1})
		}
		p.Columns[j] = lp.Column{Cost: col.Cost(), Entries: entries}
	}

	return p
}

// Objective implements colgen.Master.
func (m *Master) Objective() float64 { return m.objective }

// AddColumn implements colgen.Master.
func (m *Master) AddColumn(col *IndependentSet) error {
	if _, dup := m.keys[col.Key()]; dup {
		return fmt.Errorf("master: column %s: %w", col, colgen.ErrDuplicateColumn)
	}
	for _, v := range col.Vertices {
		if v < 0 || v >= m.n {
			return fmt.Errorf("master: column %s, vertex %d: %w", col, v, ErrVertexOutOfRange)
		}
	}
	m.keys[col.Key()] = struct{}{}
	m.columns = append(m.columns, col)

	return nil
}

// Columns implements colgen.Master.
func (m *Master) Columns() []*IndependentSet { return slices.Clone(m.columns) }

// Solution implements colgen.Master: the columns with a positive value.
func (m *Master) Solution() []*IndependentSet {
	var out []*IndependentSet
	for _, col := range m.columns {
		if col.Value() > eps {
			out = append(out, col)
		}
	}

	return out
}

// InitializePricingProblem implements colgen.Master: vertex duals become the
// pricing weights and the cut duals the constant term.
func (m *Master) InitializePricingProblem(pp *colgen.PricingProblem[*IndependentSet]) {
	pp.ModifiedCosts = slices.Clone(m.duals)
	pp.DualConstant = 0
	for _, y := range m.cutDuals {
		pp.DualConstant += y
	}
}

// Duals returns the vertex duals of the last solve.
func (m *Master) Duals() []float64 { return slices.Clone(m.duals) }

// AddInequality implements colgen.Master. Only *RoundingCut is supported.
func (m *Master) AddInequality(ineq colgen.Inequality) error {
	cut, ok := ineq.(*RoundingCut)
	if !ok {
		return fmt.Errorf("master: %T: %w", ineq, ErrUnsupportedInequality)
	}
	m.cuts = append(m.cuts, cut)

	return nil
}

// Inequalities implements colgen.Master.
func (m *Master) Inequalities() []colgen.Inequality {
	out := make([]colgen.Inequality, len(m.cuts))
	for i, cut := range m.cuts {
		out[i] = cut
	}

	return out
}

// Close implements colgen.Master.
func (m *Master) Close() error {
	m.closed = true

	return nil
}
