// SPDX-License-Identifier: MIT

package coloring

import (
	"context"

	"github.com/katalvlaran/branchprice/bap"
	"github.com/katalvlaran/branchprice/colgen"
)

var (
	_ colgen.Master[*IndependentSet]         = (*Master)(nil)
	_ colgen.PricingSolver[*IndependentSet]  = (*greedySolver)(nil)
	_ colgen.PricingSolver[*IndependentSet]  = (*exactSolver)(nil)
	_ colgen.Bounder                         = (*exactSolver)(nil)
	_ colgen.CutGenerator[*IndependentSet]   = RoundingCuts{}
	_ colgen.Inequality                      = (*RoundingCut)(nil)
	_ bap.BranchCreator[*IndependentSet]     = (*RyanFoster)(nil)
	_ bap.BranchingDecision[*IndependentSet] = (*Same)(nil)
	_ bap.BranchingDecision[*IndependentSet] = (*Differ)(nil)
)

// Greedy returns a first-fit colouring in vertex order and its colour count.
//
// Complexity: O(V + E).
func Greedy(g *Graph) ([]int, int) {
	var (
		n      = g.Order()
		colors = make([]int, n)
		k      int
	)
	for v := 0; v < n; v++ {
		nbrs, _ := g.Neighbors(v)
		used := make(map[int]struct{}, len(nbrs))
		for _, w := range nbrs {
			if w < v {
				used[colors[w]] = struct{}{}
			}
		}
		c := 0
		for {
			if _, taken := used[c]; !taken {
				break
			}
			c++
		}
		colors[v] = c
		k = max(k, c+1)
	}

	return colors, k
}

// ColorClasses turns a colouring with k colours into its independent sets.
func ColorClasses(colors []int, k int, creator string) []*IndependentSet {
	members := make([][]int, k)
	for v, c := range colors {
		members[c] = append(members[c], v)
	}
	out := make([]*IndependentSet, 0, k)
	for _, vs := range members {
		if len(vs) > 0 {
			out = append(out, NewIndependentSet(vs, creator))
		}
	}

	return out
}

// NewProblem builds the branch-and-price problem of colouring g. The root
// starts from the first-fit colour classes, so its master is feasible
// without an artificial column.
func NewProblem(g *Graph, opts ...Option) bap.Problem[*IndependentSet] {
	var cfg = DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return newProblem(g, cfg)
}

func newProblem(g *Graph, cfg Options) bap.Problem[*IndependentSet] {
	var (
		n      = g.Order()
		model  = NewModel(g)
		lpOpts = cfg.LP
	)
	colors, k := Greedy(g)

	return bap.Problem[*IndependentSet]{
		Pricing: []*colgen.PricingProblem[*IndependentSet]{
			colgen.NewPricingProblem[*IndependentSet](0, pricingProblemName),
		},
		Tiers: Tiers(model, cfg.MaxColumns),
		NewMaster: func(_ context.Context, node *bap.Node[*IndependentSet]) (colgen.Master[*IndependentSet], error) {
			return NewMaster(n, node.Columns, node.Inequalities, lpOpts...)
		},
		Artificial: func(_ *colgen.PricingProblem[*IndependentSet], cost float64) *IndependentSet {
			return NewArtificial(n, cost)
		},
		Creators:    []bap.BranchCreator[*IndependentSet]{NewRyanFoster(model)},
		Cuts:        []colgen.CutGenerator[*IndependentSet]{RoundingCuts{}},
		RootColumns: ColorClasses(colors, k, creatorWarmStart),
	}
}

// Solve computes a minimum colouring of g by branch and price.
//
// The engine runs with the Farley bound installed; options passed with
// WithEngineOptions come after it and may replace it. A run stopped by a
// time limit returns the best colouring found with Optimal == false.
func Solve(ctx context.Context, g *Graph, opts ...Option) (Coloring, error) {
	var cfg = DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if g.Order() == 0 {
		return Coloring{Colors: []int{}, Optimal: true}, nil
	}

	problem := newProblem(g, cfg)
	engineOpts := append([]bap.Option{bap.WithBound(FarleyBound)}, cfg.Engine...)
	engine, err := bap.NewEngine(problem, engineOpts...)
	if err != nil {
		return Coloring{}, err
	}
	defer engine.Close()

	if cfg.WarmStart {
		for _, col := range problem.RootColumns {
			col.SetValue(1)
		}
		if err = engine.WarmStart(float64(len(problem.RootColumns)), problem.RootColumns); err != nil {
			return Coloring{}, err
		}
	}

	res, err := engine.Run(ctx)
	if err != nil {
		return Coloring{Bound: res.Bound, Stats: res.Stats}, err
	}
	if len(res.Solution) == 0 {
		return Coloring{Bound: res.Bound, Stats: res.Stats}, ErrNoColoring
	}

	colors, k := decode(g.Order(), res.Solution)

	return Coloring{
		Colors:    colors,
		NumColors: k,
		Optimal:   res.Optimal,
		Bound:     res.Bound,
		Stats:     res.Stats,
	}, nil
}

// decode gives every vertex the colour of the first chosen class holding it.
func decode(n int, solution []*IndependentSet) ([]int, int) {
	var (
		colors = make([]int, n)
		index  = make(map[int]int)
	)
	for v := range colors {
		colors[v] = -1
	}
	for i, col := range solution {
		if col.Artificial() || col.Value() < 0.5 {
			continue
		}
		for _, v := range col.Vertices {
			if colors[v] >= 0 {
				continue
			}
			c, ok := index[i]
			if !ok {
				c = len(index)
				index[i] = c
			}
			colors[v] = c
		}
	}

	return colors, len(index)
}
