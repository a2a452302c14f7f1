// SPDX-License-Identifier: MIT

package bap

import (
	"slices"

	"github.com/katalvlaran/branchprice/colgen"
)

// ApplierStats counts decision applications and rewinds.
type ApplierStats struct {
	Applies     int
	Rewinds     int
	Transitions int
}

// Applier keeps the collaborators' state in sync with the node being solved.
//
// Between two nodes it rewinds the decisions below their deepest common
// ancestor (deepest first) and applies the target's remaining decisions
// (shallowest first). Moving A→B→A leaves the collaborators exactly as they
// were in A.
type Applier[C colgen.Column] struct {
	path    []int
	applied []BranchingDecision[C]
	stats   ApplierStats
}

// NewApplier returns an applier positioned at the (virtual) empty node: no
// decision applied.
func NewApplier[C colgen.Column]() *Applier[C] { return &Applier[C]{} }

// TransitionTo moves the collaborator state to target.
//
// Complexity: O(depth(current) + depth(target)).
func (a *Applier[C]) TransitionTo(target *Node[C]) {
	// Shared ids include the common root, so shared-1 decisions are kept.
	keep := commonPrefix(a.path, target.Path) - 1
	if keep < 0 {
		keep = 0
	}

	for len(a.applied) > keep {
		last := len(a.applied) - 1
		a.applied[last].Rewind()
		a.applied[last] = nil
		a.applied = a.applied[:last]
		a.stats.Rewinds++
	}
	for i := len(a.applied); i < len(target.Decisions); i++ {
		d := target.Decisions[i]
		d.Apply()
		a.applied = append(a.applied, d)
		a.stats.Applies++
	}

	a.path = slices.Clone(target.Path)
	a.stats.Transitions++
}

// Reset rewinds every applied decision, returning the collaborators to the
// root state.
func (a *Applier[C]) Reset() {
	for i := len(a.applied) - 1; i >= 0; i-- {
		a.applied[i].Rewind()
		a.stats.Rewinds++
	}
	a.applied = nil
	a.path = nil
}

// Applied returns the currently applied decisions, shallowest first.
func (a *Applier[C]) Applied() []BranchingDecision[C] { return slices.Clone(a.applied) }

// Current returns the id path of the node the state corresponds to.
func (a *Applier[C]) Current() []int { return slices.Clone(a.path) }

// Stats returns the applier's counters.
func (a *Applier[C]) Stats() ApplierStats { return a.stats }

// commonPrefix returns the length of the longest common prefix of a and b.
func commonPrefix(a, b []int) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}
