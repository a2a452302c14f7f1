// SPDX-License-Identifier: MIT

package coloring

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/branchprice/bap"
	"github.com/katalvlaran/branchprice/colgen"
)

const ryanFosterName = "ryan-foster"

// Same forces U and V into the same colour class.
type Same struct {
	model *Model
	U, V  int
}

// NewSame returns the decision tying u and v together in model.
func NewSame(model *Model, u, v int) *Same { return &Same{model: model, U: u, V: v} }

// Apply implements bap.BranchingDecision.
func (d *Same) Apply() { d.model.pushSame(d.U, d.V) }

// Rewind implements bap.BranchingDecision.
func (d *Same) Rewind() { d.model.popSame() }

// ColumnCompatible keeps the columns holding both vertices or neither.
func (d *Same) ColumnCompatible(col *IndependentSet) bool {
	return col.Artificial() || col.Contains(d.U) == col.Contains(d.V)
}

// InequalityCompatible implements bap.BranchingDecision. Rounding cuts stay
// valid in every subtree.
func (d *Same) InequalityCompatible(colgen.Inequality) bool { return true }

func (d *Same) String() string { return fmt.Sprintf("same(%d,%d)", d.U, d.V) }

// Differ forbids U and V in one colour class by adding the edge U–V to the
// pricing graph.
type Differ struct {
	model *Model
	U, V  int
	added bool
}

// NewDiffer returns the decision keeping u and v apart in model.
func NewDiffer(model *Model, u, v int) *Differ { return &Differ{model: model, U: u, V: v} }

// Apply implements bap.BranchingDecision.
func (d *Differ) Apply() {
	if d.model.pricing.HasEdge(d.U, d.V) {
		return
	}
	d.added = d.model.pricing.AddEdge(d.U, d.V) == nil
}

// Rewind implements bap.BranchingDecision.
func (d *Differ) Rewind() {
	if d.added {
		_ = d.model.pricing.RemoveEdge(d.U, d.V)
		d.added = false
	}
}

// ColumnCompatible drops the columns holding both vertices.
func (d *Differ) ColumnCompatible(col *IndependentSet) bool {
	return col.Artificial() || !(col.Contains(d.U) && col.Contains(d.V))
}

// InequalityCompatible implements bap.BranchingDecision.
func (d *Differ) InequalityCompatible(colgen.Inequality) bool { return true }

func (d *Differ) String() string { return fmt.Sprintf("differ(%d,%d)", d.U, d.V) }

// RyanFoster branches on a vertex pair (u, v) whose joint coverage
// Σ_{S∋u,v} x_S is fractional: one child colours u and v alike, the other
// apart. When no such pair exists it falls back to any undecided pair met in
// a fractional column, which still shrinks the feasible region.
type RyanFoster struct {
	model *Model
}

// NewRyanFoster returns the creator over model.
func NewRyanFoster(model *Model) *RyanFoster { return &RyanFoster{model: model} }

// Name implements bap.BranchCreator.
func (rf *RyanFoster) Name() string { return ryanFosterName }

// CanBranch implements bap.BranchCreator.
func (rf *RyanFoster) CanBranch(solution []*IndependentSet) bool {
	_, _, ok := rf.Pair(solution)

	return ok
}

// Branch implements bap.BranchCreator: the Same child comes first.
func (rf *RyanFoster) Branch(parent *bap.Node[*IndependentSet], f *bap.NodeFactory[*IndependentSet]) []*bap.Node[*IndependentSet] {
	u, v, ok := rf.Pair(parent.Solution)
	if !ok {
		return nil
	}

	return []*bap.Node[*IndependentSet]{
		f.Child(parent, NewSame(rf.model, u, v)),
		f.Child(parent, NewDiffer(rf.model, u, v)),
	}
}

// Pair selects the branching pair of solution (u < v): the undecided pair
// whose joint coverage is closest to one half, ties to the smallest pair.
//
// Complexity: O(Σ|S|² + V²).
func (rf *RyanFoster) Pair(solution []*IndependentSet) (int, int, bool) {
	part := rf.model.partition()

	var (
		joint = make(map[[2]int]float64)
		pairs [][2]int
	)
	for _, col := range solution {
		x := col.Value()
		if col.Artificial() || x <= eps {
			continue
		}
		for i, u := range col.Vertices {
			for _, v := range col.Vertices[i+1:] {
				key := [2]int{u, v}
				if _, ok := joint[key]; !ok {
					pairs = append(pairs, key)
				}
				joint[key] += x
			}
		}
	}
	slices.SortFunc(pairs, comparePairs)

	var (
		best  [2]int
		score = math.Inf(1)
	)
	for _, p := range pairs {
		f := joint[p]
		frac := f - math.Floor(f)
		if frac <= eps || frac >= 1-eps || part.decided(p[0], p[1]) {
			continue
		}
		if s := math.Abs(frac - 0.5); s < score-eps {
			best, score = p, s
		}
	}
	if !math.IsInf(score, 1) {
		return best[0], best[1], true
	}

	return rf.fallback(&part, solution)
}

// fallback picks the first undecided pair with at least one vertex in a
// fractional column.
func (rf *RyanFoster) fallback(part *partition, solution []*IndependentSet) (int, int, bool) {
	n := rf.model.graph.Order()
	for _, col := range solution {
		x := col.Value()
		if col.Artificial() || math.Abs(x-math.Round(x)) <= eps {
			continue
		}
		for _, u := range col.Vertices {
			for v := 0; v < n; v++ {
				if v != u && !part.decided(u, v) {
					return min(u, v), max(u, v), true
				}
			}
		}
	}

	return 0, 0, false
}

func comparePairs(a, b [2]int) int {
	if a[0] != b[0] {
		return a[0] - b[0]
	}

	return a[1] - b[1]
}
