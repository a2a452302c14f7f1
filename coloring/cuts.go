// SPDX-License-Identifier: MIT

package coloring

import (
	"context"
	"math"

	"github.com/katalvlaran/branchprice/colgen"
)

const roundingName = "rounding"

// RoundingCuts separates Σ x ≥ ⌈Σ x*⌉ for a fractional total x*.
//
// With unit costs and no artificial column in the solution, Σ x* is the
// node's LP bound, so every colouring of the subtree satisfies the cut.
type RoundingCuts struct{}

// Name implements colgen.CutGenerator.
func (RoundingCuts) Name() string { return roundingName }

// GenerateInequalities implements colgen.CutGenerator.
func (RoundingCuts) GenerateInequalities(ctx context.Context, solution []*IndependentSet) ([]colgen.Inequality, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var total float64
	for _, col := range solution {
		if col.Artificial() && col.Value() > eps {
			return nil, nil
		}
		total += col.Value()
	}
	if total-math.Floor(total) <= eps || math.Ceil(total)-total <= eps {
		return nil, nil
	}

	return []colgen.Inequality{&RoundingCut{Min: int(math.Ceil(total))}}, nil
}
