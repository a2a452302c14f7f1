// SPDX-License-Identifier: MIT

// Package colgen: the column-generation loop of one search node.
//
// Loop.Run alternates:
//  1. master solve under the deadline (StatusTimedOut ⇒ ErrTimeLimit);
//  2. gap test: objective ≈ bound (or ≈ 0 when minimising) ⇒ the relaxation is
//     solved; with cuts enabled, violated inequalities trigger a re-solve that
//     is not counted as a new iteration;
//  3. cutoff test: round(bound) worse than the incumbent ⇒ stop, the node can
//     be pruned without further pricing;
//  4. dual refresh of every pricing problem;
//  5. pricing tiers in order, stopping at the first tier that yields columns;
//     columns go to the master and to their pricing problem's active set;
//  6. deadline test;
//  7. no columns ⇒ final cut separation pass;
//  8. repeat while columns or cuts were found.
package colgen

import (
	"context"
	"fmt"
	"math"
	"time"
)

// LoopResult is the outcome of Loop.Run.
type LoopResult[C Column] struct {
	// Objective is the last master objective.
	Objective float64

	// Bound is the best proven bound on the node relaxation.
	Bound float64

	// Solution holds the non-zero columns of the last master solve.
	Solution []C

	// Converged reports that the relaxation was solved to optimality
	// (as opposed to stopping on the cutoff).
	Converged bool

	// Infeasible reports an infeasible master or pricing problem.
	Infeasible bool

	Iterations       int
	ColumnsGenerated int
	CutsAdded        int
	MasterTime       time.Duration
	PricingTime      time.Duration
	CutTime          time.Duration
}

// Loop solves one node relaxation by column generation.
// It is single-use per master but may be Run repeatedly on the same master.
type Loop[C Column] struct {
	master  Master[C]
	pricing []*PricingProblem[C]
	manager *PricingManager[C]
	cuts    *CutHandler[C]
	opts    LoopOptions
	bound   BoundFunc
}

// NewLoop binds a master to a pricing manager. cuts may be nil (cuts disabled).
func NewLoop[C Column](master Master[C], manager *PricingManager[C], cuts *CutHandler[C], opts ...LoopOption) (*Loop[C], error) {
	if master == nil {
		return nil, ErrNilMaster
	}
	if manager == nil {
		return nil, ErrNilManager
	}
	var cfg = DefaultLoopOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	l := &Loop[C]{
		master:  master,
		pricing: manager.Pricing(),
		manager: manager,
		cuts:    cuts,
		opts:    cfg,
		bound:   cfg.Bound,
	}
	if l.bound == nil {
		l.bound = DefaultBound(cfg.Sense)
	}

	return l, nil
}

// Run executes the loop.
//
// Inputs:
//   - deadline: absolute deadline for every master/pricing call (zero = none).
//   - cutoff: the incumbent objective; the loop stops early once the bound
//     proves the node cannot beat it.
//   - initialBound: a bound already known for this node (its parent's bound).
//
// Errors: ErrTimeLimit, ErrDuplicateColumn (fatal), ErrUnknownPricingProblem,
// ctx.Err(), and collaborator errors. On error the partial statistics are
// still returned.
func (l *Loop[C]) Run(ctx context.Context, deadline time.Time, cutoff, initialBound float64) (LoopResult[C], error) {
	var (
		sense     = l.opts.Sense
		res       = LoopResult[C]{Bound: initialBound}
		bound     = initialBound
		objective float64
		status    SolverStatus
		cols      []C
		tier      int
		err       error
	)

	if err = l.seedActiveColumns(); err != nil {
		return res, err
	}

	for {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		res.Iterations++

		// 1) Master.
		start := time.Now()
		status, err = l.master.Solve(ctx, deadline)
		res.MasterTime += time.Since(start)
		if err != nil {
			return res, err
		}
		switch status {
		case StatusOptimal:
		case StatusTimedOut:
			return res, ErrTimeLimit
		case StatusInfeasible:
			res.Infeasible = true
			res.Bound = sense.Worst()

			return res, nil
		default:
			return res, fmt.Errorf("iteration %d: %w", res.Iterations, ErrMasterUndecided)
		}
		objective = l.master.Objective()

		// 2) Gap closed: only cuts can move the objective now.
		if l.gapClosed(objective, bound) {
			added, cerr := l.separate(ctx, &res)
			if cerr != nil {
				return res, cerr
			}
			if added > 0 {
				res.Iterations--
				continue
			}
			res.Converged = true
			break
		}

		// 3) Cutoff.
		if l.exceedsCutoff(bound, cutoff) {
			break
		}

		// 4) Duals.
		for _, pp := range l.pricing {
			l.master.InitializePricingProblem(pp)
		}

		// 5) Pricing tiers, cheapest first.
		l.manager.SetDeadline(deadline)
		cols = nil
		start = time.Now()
		for tier = 0; tier < l.manager.Tiers(); tier++ {
			cols, err = l.manager.SolveTier(ctx, tier)
			if err != nil {
				res.PricingTime += time.Since(start)
				return res, err
			}
			if l.manager.Infeasible() {
				res.PricingTime += time.Since(start)
				res.Infeasible = true
				res.Bound = sense.Worst()

				return res, nil
			}
			bound = sense.Tighter(bound, l.bound(objective, l.pricingBounds()))
			if len(cols) > 0 {
				break
			}
		}
		res.PricingTime += time.Since(start)

		if l.exceedsCutoff(bound, cutoff) {
			l.emit(res, objective, bound, tier, 0)
			break
		}

		for _, col := range cols {
			if err = l.addColumn(col); err != nil {
				return res, err
			}
		}
		res.ColumnsGenerated += len(cols)

		// 6) Deadline.
		if !deadline.IsZero() && time.Now().After(deadline) {
			return res, ErrTimeLimit
		}

		// 7) Stable master: last chance for cuts.
		var added int
		if len(cols) == 0 {
			added, err = l.separate(ctx, &res)
			if err != nil {
				return res, err
			}
		}
		l.emit(res, objective, bound, tier, added)

		// 8) Continue while something changed.
		if len(cols) == 0 && added == 0 {
			res.Converged = true
			break
		}
	}

	if res.Converged {
		bound = sense.Tighter(bound, objective)
	}
	res.Objective = objective
	res.Bound = bound
	res.Solution = l.master.Solution()

	l.opts.Logger.Debug("column generation finished",
		"iterations", res.Iterations,
		"objective", objective,
		"bound", bound,
		"columns", res.ColumnsGenerated,
		"cuts", res.CutsAdded,
		"converged", res.Converged,
	)

	return res, nil
}

// gapClosed reports whether objective already equals a proven bound.
func (l *Loop[C]) gapClosed(objective, bound float64) bool {
	var eps = l.opts.Precision
	if math.Abs(objective-bound) < eps {
		return true
	}

	return l.opts.Sense == Minimize && math.Abs(objective) < eps
}

// exceedsCutoff reports whether bound proves that no solution of this node
// beats cutoff.
func (l *Loop[C]) exceedsCutoff(bound, cutoff float64) bool {
	var eps = l.opts.Precision
	if l.opts.IntegralObjective {
		bound = l.opts.Sense.Round(bound, eps)
	}

	return l.opts.Sense.Worse(bound, cutoff, eps)
}

// separate runs the cut handler, if any, on the current master solution.
func (l *Loop[C]) separate(ctx context.Context, res *LoopResult[C]) (int, error) {
	if l.cuts == nil {
		return 0, nil
	}
	start := time.Now()
	added, err := l.cuts.Separate(ctx, l.master.Solution(), l.master)
	res.CutTime += time.Since(start)
	res.CutsAdded += added

	return added, err
}

// seedActiveColumns rebuilds every pricing problem's active set from the
// columns the master starts with.
func (l *Loop[C]) seedActiveColumns() error {
	for _, pp := range l.pricing {
		pp.resetColumns()
	}
	for _, col := range l.master.Columns() {
		id := col.PricingProblem()
		if id < 0 || id >= len(l.pricing) {
			return fmt.Errorf("column %q: %w", col.Key(), ErrUnknownPricingProblem)
		}
		l.pricing[id].seedColumn(col)
	}

	return nil
}

// addColumn registers a generated column with its pricing problem and the master.
func (l *Loop[C]) addColumn(col C) error {
	id := col.PricingProblem()
	if id < 0 || id >= len(l.pricing) {
		return fmt.Errorf("column %q: %w", col.Key(), ErrUnknownPricingProblem)
	}
	if err := l.pricing[id].addColumn(col); err != nil {
		return err
	}

	return l.master.AddColumn(col)
}

// pricingBounds collects the bounds reported in the last tier.
func (l *Loop[C]) pricingBounds() []float64 {
	out := make([]float64, len(l.pricing))
	for i, pp := range l.pricing {
		out[i] = pp.Bound
	}

	return out
}

// emit publishes one iteration to the logger and the observer.
func (l *Loop[C]) emit(res LoopResult[C], objective, bound float64, tier, cuts int) {
	l.opts.Logger.Debug("column generation iteration",
		"iteration", res.Iterations,
		"objective", objective,
		"bound", bound,
		"tier", l.manager.TierName(tier),
		"columns", res.ColumnsGenerated,
	)
	if l.opts.OnIteration == nil {
		return
	}
	l.opts.OnIteration(IterationEvent{
		Iteration:   res.Iterations,
		Objective:   objective,
		Bound:       bound,
		Tier:        tier,
		Columns:     res.ColumnsGenerated,
		Cuts:        cuts,
		MasterTime:  res.MasterTime,
		PricingTime: res.PricingTime,
	})
}
