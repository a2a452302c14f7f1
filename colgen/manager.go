// SPDX-License-Identifier: MIT

package colgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// PricingManager owns one solver instance per (tier, pricing problem) and runs
// a tier on a pool bounded by MaxParallelism.
//
// SolveTier is all-or-nothing: either every solver of the tier finished and
// their columns are returned together, or the first error observed (usually
// ErrTimeLimit) is returned with no columns and outstanding tasks are cancelled.
//
// Thread Safety: the manager itself is driven by a single control goroutine.
type PricingManager[C Column] struct {
	pricing  []*PricingProblem[C]
	names    []string
	solvers  [][]PricingSolver[C] // solvers[tier][pricing problem]
	limit    int
	deadline time.Time
	logger   *slog.Logger

	infeasible bool // last SolveTier saw an infeasible pricing problem

	closeOnce sync.Once
	closed    bool
	closeErr  error
}

// NewPricingManager instantiates every tier's solver for every pricing problem.
// If a factory fails, solvers created so far are closed and the error is returned.
//
// Contracts:
//   - len(pricing) ≥ 1 and pricing[i].ID == i.
//   - len(tiers) ≥ 1 and every tier has a non-nil factory.
func NewPricingManager[C Column](pricing []*PricingProblem[C], tiers []Tier[C], opts ...ManagerOption) (*PricingManager[C], error) {
	var cfg = DefaultManagerOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(pricing) == 0 {
		return nil, ErrNoPricing
	}
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	for i, pp := range pricing {
		if pp == nil || pp.ID != i {
			return nil, fmt.Errorf("pricing problem at %d: %w", i, ErrPricingIndex)
		}
	}

	m := &PricingManager[C]{
		pricing: pricing,
		names:   make([]string, len(tiers)),
		solvers: make([][]PricingSolver[C], len(tiers)),
		limit:   cfg.MaxParallelism,
		logger:  cfg.Logger,
	}

	for t, tier := range tiers {
		if tier.New == nil {
			m.closeSolvers()
			return nil, fmt.Errorf("tier %d: %w", t, ErrNilFactory)
		}
		m.names[t] = tier.Name
		if m.names[t] == "" {
			m.names[t] = fmt.Sprintf("tier-%d", t)
		}
		m.solvers[t] = make([]PricingSolver[C], 0, len(pricing))
		for _, pp := range pricing {
			s, err := tier.New(pp)
			if err != nil {
				m.closeSolvers()
				return nil, fmt.Errorf("tier %s, %s: %w", m.names[t], pp, err)
			}
			m.solvers[t] = append(m.solvers[t], s)
		}
	}

	return m, nil
}

// Pricing returns the managed pricing problems.
func (m *PricingManager[C]) Pricing() []*PricingProblem[C] { return m.pricing }

// Tiers returns the number of tiers.
func (m *PricingManager[C]) Tiers() int { return len(m.solvers) }

// TierName returns the name of tier t ("" when out of range).
func (m *PricingManager[C]) TierName(t int) string {
	if t < 0 || t >= len(m.names) {
		return ""
	}

	return m.names[t]
}

// MaxParallelism returns the pool bound.
func (m *PricingManager[C]) MaxParallelism() int { return m.limit }

// SetDeadline sets the absolute deadline handed to every solver of the next
// SolveTier calls. The zero time means no deadline.
func (m *PricingManager[C]) SetDeadline(t time.Time) { m.deadline = t }

// Infeasible reports whether the last SolveTier found a pricing problem infeasible.
func (m *PricingManager[C]) Infeasible() bool { return m.infeasible }

// SolveTier runs every solver of tier on the pool, waits for all of them and
// returns the generated columns ordered by pricing problem.
//
// Errors:
//   - ErrManagerClosed, ErrBadTier on misuse.
//   - ErrTimeLimit (wrapped with tier/pricing context) when a solver missed the deadline.
//   - ctx.Err() when the caller cancelled.
//   - any other solver error, first observed wins.
func (m *PricingManager[C]) SolveTier(ctx context.Context, tier int) ([]C, error) {
	if m.closed {
		return nil, ErrManagerClosed
	}
	if tier < 0 || tier >= len(m.solvers) {
		return nil, ErrBadTier
	}

	var (
		solvers    = m.solvers[tier]
		name       = m.names[tier]
		results    = make([][]C, len(solvers))
		bounds     = make([]float64, len(solvers))
		infeasible = make([]bool, len(solvers))
		runCtx     context.Context
		cancel     context.CancelFunc
	)
	if m.deadline.IsZero() {
		runCtx, cancel = context.WithCancel(ctx)
	} else {
		runCtx, cancel = context.WithDeadline(ctx, m.deadline)
	}
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(m.limit)

	for k, s := range solvers {
		k, s := k, s
		pp := m.pricing[k]
		g.Go(func() error {
			// Tasks still queued after a failure are skipped.
			if err := gctx.Err(); err != nil {
				return timeLimitFor(ctx, err)
			}
			s.SetObjective(pp)
			cols, err := s.GenerateColumns(gctx, m.deadline)
			if err != nil {
				return fmt.Errorf("tier %s, %s: %w", name, pp, timeLimitFor(ctx, err))
			}
			results[k] = cols
			infeasible[k] = !s.Feasible()
			bounds[k] = math.NaN()
			if b, ok := s.(Bounder); ok {
				bounds[k] = b.Bound()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.logger.Debug("pricing tier aborted", "tier", name, "error", err)
		return nil, err
	}

	var (
		total int
		out   []C
	)
	m.infeasible = false
	for k := range results {
		total += len(results[k])
		m.pricing[k].Bound = bounds[k]
		if infeasible[k] {
			m.infeasible = true
		}
	}
	out = make([]C, 0, total)
	for k := range results {
		out = append(out, results[k]...)
	}
	m.logger.Debug("pricing tier solved", "tier", name, "columns", total, "infeasible", m.infeasible)

	return out, nil
}

// Close releases every solver instance. Safe to call more than once; only the
// first call closes solvers and its error is returned by every call.
func (m *PricingManager[C]) Close() error {
	m.closeOnce.Do(func() {
		m.closed = true
		m.closeErr = m.closeSolvers()
	})

	return m.closeErr
}

// closeSolvers closes every created solver and joins their errors.
func (m *PricingManager[C]) closeSolvers() error {
	var errs []error
	for _, tier := range m.solvers {
		for _, s := range tier {
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// timeLimitFor maps deadline expiry to ErrTimeLimit. Cancellation by the
// caller (parent ctx) is passed through untouched.
func timeLimitFor(parent context.Context, err error) error {
	if errors.Is(err, ErrTimeLimit) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeLimit
	}
	if errors.Is(err, context.Canceled) && parent.Err() != nil {
		return parent.Err()
	}

	return err
}
