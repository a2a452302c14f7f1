// SPDX-License-Identifier: MIT

// Package coloring: pricing: maximum-weight independent sets.
//
// A colour class S prices out when 1 − Σ_{v∈S} y_v − μ < 0, where y are the
// vertex duals and μ the sum of the rounding-cut duals. Both tiers search the
// pricing graph over Same-groups (a group enters a set whole or not at all):
//
//   - greedy: one first-fit pass per seed group in descending weight order;
//   - exact: depth-first branch and bound with the "remaining weight" bound,
//     deadline polled every 4096 node events. It reports w* + μ, which feeds
//     the Farley bound z / (w* + μ).
package coloring

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/branchprice/colgen"
)

// Tiers returns the greedy and the exact pricing tier over model. Each call
// returns at most maxColumns columns.
func Tiers(model *Model, maxColumns int) []colgen.Tier[*IndependentSet] {
	if maxColumns < 1 {
		maxColumns = defaultMaxColumns
	}

	return []colgen.Tier[*IndependentSet]{
		{
			Name: creatorGreedy,
			New: func(*colgen.PricingProblem[*IndependentSet]) (colgen.PricingSolver[*IndependentSet], error) {
				return &greedySolver{pricer: pricer{model: model, maxColumns: maxColumns}}, nil
			},
		},
		{
			Name: creatorExact,
			New: func(*colgen.PricingProblem[*IndependentSet]) (colgen.PricingSolver[*IndependentSet], error) {
				return &exactSolver{pricer: pricer{model: model, maxColumns: maxColumns}}, nil
			},
		},
	}
}

// FarleyBound is the colgen.BoundFunc of the colouring master: the master
// objective divided by the exact pricing optimum w* + μ. It carries no
// information when only the heuristic tier ran.
func FarleyBound(objective float64, pricingBounds []float64) float64 {
	if len(pricingBounds) == 0 {
		return math.Inf(-1)
	}
	b := pricingBounds[0]
	if math.IsNaN(b) || b <= eps {
		return math.Inf(-1)
	}

	return math.Min(objective, objective/b)
}

// MaxWeightIndependentSet returns a maximum-weight independent set of g and
// its weight. Vertices with a non-positive weight are never chosen.
func MaxWeightIndependentSet(ctx context.Context, g *Graph, weights []float64) ([]int, float64, error) {
	if len(weights) != g.Order() {
		return nil, 0, fmt.Errorf("weights: len %d, order %d: %w", len(weights), g.Order(), ErrVertexCount)
	}
	part := NewModel(g).partition()
	w := part.weights(weights)
	s := newSearch(ctx, time.Time{}, &part, w, math.Inf(1))
	if err := s.expand(0, candidates(&part, w)); err != nil {
		return nil, 0, err
	}

	return part.expand(s.bestSet), s.best, nil
}

// pricer holds what both tiers share.
type pricer struct {
	model      *Model
	maxColumns int

	pp       *colgen.PricingProblem[*IndependentSet]
	duals    []float64
	constant float64
}

// SetObjective implements colgen.PricingSolver.
func (p *pricer) SetObjective(pp *colgen.PricingProblem[*IndependentSet]) {
	p.pp = pp
	p.duals = slices.Clone(pp.ModifiedCosts)
	p.constant = pp.DualConstant
}

// Feasible implements colgen.PricingSolver: the empty set is always feasible.
func (p *pricer) Feasible() bool { return true }

// Close implements colgen.PricingSolver.
func (p *pricer) Close() error { return nil }

// threshold is the group weight a column must exceed to price out.
func (p *pricer) threshold() float64 { return 1 - p.constant + eps }

// collect turns group sets into new columns, skipping active and repeated keys.
func (p *pricer) collect(part *partition, sets [][]int, creator string) []*IndependentSet {
	var (
		out  []*IndependentSet
		seen = make(map[string]struct{})
	)
	for _, groups := range sets {
		col := NewIndependentSet(part.expand(groups), creator)
		if _, dup := seen[col.Key()]; dup {
			continue
		}
		if p.pp != nil && p.pp.HasColumn(col.Key()) {
			continue
		}
		seen[col.Key()] = struct{}{}
		out = append(out, col)
		if len(out) == p.maxColumns {
			break
		}
	}

	return out
}

// greedySolver is the heuristic tier.
type greedySolver struct {
	pricer
}

// GenerateColumns implements colgen.PricingSolver.
//
// Complexity: O(k²·g) for g usable groups and k seeds.
func (s *greedySolver) GenerateColumns(ctx context.Context, _ time.Time) ([]*IndependentSet, error) {
	var (
		part      = s.model.partition()
		w         = part.weights(s.duals)
		order     = candidates(&part, w)
		threshold = s.threshold()
		sets      [][]int
	)
	for _, seed := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chosen := []int{seed}
		total := w[seed]
		for _, g := range order {
			if g == seed || conflicts(&part, chosen, g) {
				continue
			}
			chosen = append(chosen, g)
			total += w[g]
		}
		if total > threshold {
			sets = append(sets, chosen)
		}
	}

	return s.collect(&part, sets, creatorGreedy), nil
}

// exactSolver is the exact tier.
type exactSolver struct {
	pricer
	bound float64
}

// GenerateColumns implements colgen.PricingSolver. Columns come out in the
// order they improved the search, best last.
func (s *exactSolver) GenerateColumns(ctx context.Context, deadline time.Time) ([]*IndependentSet, error) {
	part := s.model.partition()
	w := part.weights(s.duals)
	srch := newSearch(ctx, deadline, &part, w, s.threshold())
	if err := srch.expand(0, candidates(&part, w)); err != nil {
		return nil, err
	}
	s.bound = srch.best + s.constant

	sets := srch.improving
	slices.Reverse(sets)
	cols := s.collect(&part, sets, creatorExact)
	slices.Reverse(cols)

	return cols, nil
}

// Bound implements colgen.Bounder: w* + μ of the last call.
func (s *exactSolver) Bound() float64 { return s.bound }

// candidates returns the usable groups with a positive weight, heaviest first.
func candidates(part *partition, w []float64) []int {
	out := make([]int, 0, len(w))
	for g, x := range w {
		if x > eps && !part.broken[g] {
			out = append(out, g)
		}
	}
	slices.SortStableFunc(out, func(a, b int) int { return cmp.Compare(w[b], w[a]) })

	return out
}

func conflicts(part *partition, chosen []int, g int) bool {
	for _, c := range chosen {
		if part.conflict[c][g] {
			return true
		}
	}

	return false
}

// search is one exact maximum-weight independent set enumeration.
type search struct {
	ctx      context.Context
	deadline time.Time
	steps    int

	conflict  [][]bool
	w         []float64
	threshold float64

	chosen    []int
	best      float64
	bestSet   []int
	improving [][]int // every incumbent above threshold, in discovery order
}

func newSearch(ctx context.Context, deadline time.Time, part *partition, w []float64, threshold float64) *search {
	return &search{ctx: ctx, deadline: deadline, conflict: part.conflict, w: w, threshold: threshold}
}

// expand enumerates the extensions of s.chosen by cands, pruning when the
// chosen weight plus every remaining candidate cannot beat the incumbent.
func (s *search) expand(weight float64, cands []int) error {
	if err := s.tick(); err != nil {
		return err
	}
	if weight > s.best+eps {
		s.best = weight
		s.bestSet = slices.Clone(s.chosen)
		if weight > s.threshold {
			s.improving = append(s.improving, s.bestSet)
		}
	}

	var rest float64
	for _, c := range cands {
		rest += s.w[c]
	}
	for i, c := range cands {
		if weight+rest <= s.best+eps {
			return nil
		}
		rest -= s.w[c]

		next := make([]int, 0, len(cands)-i-1)
		for _, d := range cands[i+1:] {
			if !s.conflict[c][d] {
				next = append(next, d)
			}
		}
		s.chosen = append(s.chosen, c)
		if err := s.expand(weight+s.w[c], next); err != nil {
			return err
		}
		s.chosen = s.chosen[:len(s.chosen)-1]
	}

	return nil
}

// tick polls ctx and the deadline every 4096 node events.
func (s *search) tick() error {
	s.steps++
	if s.steps&stepMask != 0 {
		return nil
	}
	if err := s.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return colgen.ErrTimeLimit
		}

		return err
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return colgen.ErrTimeLimit
	}

	return nil
}
