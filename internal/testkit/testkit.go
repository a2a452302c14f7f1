// SPDX-License-Identifier: MIT

// Package testkit provides scripted collaborators for testing the colgen and
// bap packages without a real LP solver.
package testkit

import (
	"context"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/branchprice/bap"
	"github.com/katalvlaran/branchprice/colgen"
)

// Column is a named column.
type Column struct {
	colgen.ColumnBase
	ID string
}

// NewColumn returns a regular column of pricing problem pp.
func NewColumn(pp int, id string, cost float64) *Column {
	return &Column{ColumnBase: colgen.NewColumnBase(pp, cost, false, "testkit"), ID: id}
}

// NewArtificial returns the artificial column of pp.
func NewArtificial(pp *colgen.PricingProblem[*Column], cost float64) *Column {
	return &Column{
		ColumnBase: colgen.NewColumnBase(pp.ID, cost, true, "artificial"),
		ID:         "artificial/" + pp.Name,
	}
}

// Key implements colgen.Column.
func (c *Column) Key() string { return c.ID }

// Inequality is a named inequality.
type Inequality struct{ ID string }

// Generator implements colgen.Inequality.
func (i Inequality) Generator() string { return "testkit" }

// Key implements colgen.Inequality.
func (i Inequality) Key() string { return i.ID }

// Step scripts one master solve.
type Step struct {
	Status    colgen.SolverStatus
	Objective float64
	Values    map[string]float64
	Err       error

	// Block makes Solve wait for ctx or the deadline and report a timeout.
	Block bool

	// Undecided makes Solve return StatusUndecided without an error. A zero
	// Status otherwise reads as optimal.
	Undecided bool
}

// Master replays Steps, one per Solve; the last step repeats.
type Master struct {
	Steps []Step

	// Duals sets the pricing objective; nil leaves it untouched.
	Duals func(pp *colgen.PricingProblem[*Column])

	columns   []*Column
	ineqs     []colgen.Inequality
	objective float64
	solves    int
	closed    bool
}

// NewMaster returns a master holding columns and inequalities.
func NewMaster(columns []*Column, ineqs []colgen.Inequality, steps ...Step) *Master {
	return &Master{
		Steps:   steps,
		columns: append([]*Column(nil), columns...),
		ineqs:   append([]colgen.Inequality(nil), ineqs...),
	}
}

// Solve implements colgen.Master.
func (m *Master) Solve(ctx context.Context, deadline time.Time) (colgen.SolverStatus, error) {
	if len(m.Steps) == 0 {
		return colgen.StatusOptimal, nil
	}
	step := m.Steps[min(m.solves, len(m.Steps)-1)]
	m.solves++
	if step.Err != nil {
		return colgen.StatusUndecided, step.Err
	}
	if step.Block {
		var timer <-chan time.Time
		if !deadline.IsZero() {
			timer = time.After(time.Until(deadline))
		}
		select {
		case <-ctx.Done():
		case <-timer:
		}

		return colgen.StatusTimedOut, nil
	}
	for _, c := range m.columns {
		c.SetValue(step.Values[c.ID])
	}
	m.objective = step.Objective
	if step.Undecided {
		return colgen.StatusUndecided, nil
	}
	if step.Status == colgen.StatusUndecided {
		return colgen.StatusOptimal, nil
	}

	return step.Status, nil
}

// Objective implements colgen.Master.
func (m *Master) Objective() float64 { return m.objective }

// AddColumn implements colgen.Master.
func (m *Master) AddColumn(col *Column) error {
	m.columns = append(m.columns, col)
	return nil
}

// Columns implements colgen.Master.
func (m *Master) Columns() []*Column { return append([]*Column(nil), m.columns...) }

// Solution implements colgen.Master.
func (m *Master) Solution() []*Column {
	var out []*Column
	for _, c := range m.columns {
		if math.Abs(c.Value()) > 1e-9 {
			out = append(out, c)
		}
	}

	return out
}

// InitializePricingProblem implements colgen.Master.
func (m *Master) InitializePricingProblem(pp *colgen.PricingProblem[*Column]) {
	if m.Duals != nil {
		m.Duals(pp)
	}
}

// AddInequality implements colgen.Master.
func (m *Master) AddInequality(ineq colgen.Inequality) error {
	m.ineqs = append(m.ineqs, ineq)
	return nil
}

// Inequalities implements colgen.Master.
func (m *Master) Inequalities() []colgen.Inequality {
	return append([]colgen.Inequality(nil), m.ineqs...)
}

// Close implements colgen.Master.
func (m *Master) Close() error {
	m.closed = true
	return nil
}

// Solves returns how many times Solve ran.
func (m *Master) Solves() int { return m.solves }

// Closed reports whether Close ran.
func (m *Master) Closed() bool { return m.closed }

// Solver replays Batches, one per GenerateColumns call; later calls return
// nothing.
type Solver struct {
	Batches    [][]*Column
	Delay      time.Duration
	Err        error
	Infeasible bool

	// Gauge, when set, tracks concurrently running calls.
	Gauge *Gauge

	mu     sync.Mutex
	calls  int
	closed atomic.Int32
}

// SetObjective implements colgen.PricingSolver.
func (s *Solver) SetObjective(*colgen.PricingProblem[*Column]) {}

// GenerateColumns implements colgen.PricingSolver.
func (s *Solver) GenerateColumns(ctx context.Context, _ time.Time) ([]*Column, error) {
	if s.Gauge != nil {
		s.Gauge.enter()
		defer s.Gauge.leave()
	}
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	call := s.calls
	s.calls++
	if call < len(s.Batches) {
		return s.Batches[call], nil
	}

	return nil, nil
}

// Feasible implements colgen.PricingSolver.
func (s *Solver) Feasible() bool { return !s.Infeasible }

// Close implements colgen.PricingSolver.
func (s *Solver) Close() error {
	s.closed.Add(1)
	return nil
}

// Calls returns how many GenerateColumns calls completed without error.
func (s *Solver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

// CloseCount returns how many times Close ran.
func (s *Solver) CloseCount() int { return int(s.closed.Load()) }

// BoundedSolver is a Solver that also reports a pricing bound.
type BoundedSolver struct {
	*Solver
	Value float64
}

// Bound implements colgen.Bounder.
func (b BoundedSolver) Bound() float64 { return b.Value }

// Gauge records the peak number of concurrent holders.
type Gauge struct {
	cur  atomic.Int32
	peak atomic.Int32
}

func (g *Gauge) enter() {
	n := g.cur.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (g *Gauge) leave() { g.cur.Add(-1) }

// Peak returns the highest concurrency observed.
func (g *Gauge) Peak() int { return int(g.peak.Load()) }

// Tier wraps fixed solvers (indexed by pricing problem) as a colgen.Tier.
func Tier(name string, solvers ...colgen.PricingSolver[*Column]) colgen.Tier[*Column] {
	return colgen.Tier[*Column]{
		Name: name,
		New: func(pp *colgen.PricingProblem[*Column]) (colgen.PricingSolver[*Column], error) {
			return solvers[pp.ID], nil
		},
	}
}

// Pricing returns n pricing problems named pp0…pp(n-1).
func Pricing(n int) []*colgen.PricingProblem[*Column] {
	out := make([]*colgen.PricingProblem[*Column], n)
	for i := range out {
		out[i] = colgen.NewPricingProblem[*Column](i, "pp"+strconv.Itoa(i))
	}

	return out
}

// Decision records Apply/Rewind calls into a shared journal.
type Decision struct {
	Name    string
	Journal *[]string

	// Forbidden column keys do not survive into children.
	Forbidden map[string]bool
}

// Apply implements bap.BranchingDecision.
func (d *Decision) Apply() { *d.Journal = append(*d.Journal, "+"+d.Name) }

// Rewind implements bap.BranchingDecision.
func (d *Decision) Rewind() { *d.Journal = append(*d.Journal, "-"+d.Name) }

// ColumnCompatible implements bap.BranchingDecision.
func (d *Decision) ColumnCompatible(col *Column) bool { return !d.Forbidden[col.ID] }

// InequalityCompatible implements bap.BranchingDecision.
func (d *Decision) InequalityCompatible(colgen.Inequality) bool { return true }

// String implements bap.BranchingDecision.
func (d *Decision) String() string { return d.Name }

// Creator is a scripted branch creator.
type Creator struct {
	Label string

	// Applicable defaults to true.
	Applicable func(solution []*Column) bool

	// Children builds the children of parent.
	Children func(parent *bap.Node[*Column], f *bap.NodeFactory[*Column]) []*bap.Node[*Column]
}

// Name implements bap.BranchCreator.
func (c *Creator) Name() string { return c.Label }

// CanBranch implements bap.BranchCreator.
func (c *Creator) CanBranch(solution []*Column) bool {
	return c.Applicable == nil || c.Applicable(solution)
}

// Branch implements bap.BranchCreator.
func (c *Creator) Branch(parent *bap.Node[*Column], f *bap.NodeFactory[*Column]) []*bap.Node[*Column] {
	if c.Children == nil {
		return nil
	}

	return c.Children(parent, f)
}
