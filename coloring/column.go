// SPDX-License-Identifier: MIT

package coloring

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/branchprice/colgen"
)

// IndependentSet is a colour class: a master column of unit cost covering
// its vertices. The artificial column covers every vertex at a high cost.
type IndependentSet struct {
	colgen.ColumnBase
	Vertices []int // ascending
	key      string
}

// NewIndependentSet returns the column of vertices, which are copied and sorted.
func NewIndependentSet(vertices []int, creator string) *IndependentSet {
	vs := slices.Clone(vertices)
	slices.Sort(vs)

	return &IndependentSet{
		ColumnBase: colgen.NewColumnBase(0, 1, false, creator),
		Vertices:   vs,
		key:        setKey(vs),
	}
}

// NewArtificial returns the artificial cover-all column of an n-vertex graph.
func NewArtificial(n int, cost float64) *IndependentSet {
	vs := make([]int, n)
	for i := range vs {
		vs[i] = i
	}

	return &IndependentSet{
		ColumnBase: colgen.NewColumnBase(0, cost, true, creatorArtificial),
		Vertices:   vs,
		key:        creatorArtificial,
	}
}

// Key implements colgen.Column: the sorted vertex list.
func (s *IndependentSet) Key() string { return s.key }

// Contains reports whether v belongs to the set.
//
// Complexity: O(log |S|).
func (s *IndependentSet) Contains(v int) bool {
	_, ok := slices.BinarySearch(s.Vertices, v)

	return ok
}

// String implements fmt.Stringer.
func (s *IndependentSet) String() string {
	if s.Artificial() {
		return creatorArtificial
	}

	return "{" + s.key + "}"
}

func setKey(vs []int) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}

	return b.String()
}

// RoundingCut is the valid inequality Σ x ≥ Min over every column.
type RoundingCut struct {
	Min int
}

// Generator implements colgen.Inequality.
func (c *RoundingCut) Generator() string { return roundingName }

// Key implements colgen.Inequality.
func (c *RoundingCut) Key() string { return fmt.Sprintf("%s>=%d", roundingName, c.Min) }
