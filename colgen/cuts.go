// SPDX-License-Identifier: MIT

package colgen

import (
	"context"
	"fmt"
	"log/slog"
)

// CutHandler runs its cut generators against the current fractional point and
// adds every new inequality to the master.
//
// Separate must only be called once the master is column-generation stable
// (pricing found nothing, or the bound closed the gap): a cut separated
// earlier may be invalid for columns that have not been generated yet.
type CutHandler[C Column] struct {
	generators []CutGenerator[C]
	logger     *slog.Logger
}

// NewCutHandler returns a handler over generators, in call order.
func NewCutHandler[C Column](generators ...CutGenerator[C]) *CutHandler[C] {
	return &CutHandler[C]{
		generators: append([]CutGenerator[C](nil), generators...),
		logger:     slog.Default(),
	}
}

// WithLogger replaces the handler's logger and returns the handler.
func (h *CutHandler[C]) WithLogger(l *slog.Logger) *CutHandler[C] {
	if l != nil {
		h.logger = l
	}

	return h
}

// AddGenerator appends g to the generator list.
func (h *CutHandler[C]) AddGenerator(g CutGenerator[C]) { h.generators = append(h.generators, g) }

// Generators returns the registered generators.
func (h *CutHandler[C]) Generators() []CutGenerator[C] { return h.generators }

// Separate asks every generator for inequalities violated by solution and
// adds the ones the master does not hold yet. It returns how many were added.
func (h *CutHandler[C]) Separate(ctx context.Context, solution []C, master Master[C]) (int, error) {
	if len(h.generators) == 0 {
		return 0, nil
	}

	known := make(map[string]struct{})
	for _, ineq := range master.Inequalities() {
		known[ineq.Key()] = struct{}{}
	}

	var added int
	for _, g := range h.generators {
		found, err := g.GenerateInequalities(ctx, solution)
		if err != nil {
			return added, fmt.Errorf("cut generator %s: %w", g.Name(), err)
		}
		for _, ineq := range found {
			if _, dup := known[ineq.Key()]; dup {
				continue
			}
			if err = master.AddInequality(ineq); err != nil {
				return added, fmt.Errorf("cut generator %s: add %q: %w", g.Name(), ineq.Key(), err)
			}
			known[ineq.Key()] = struct{}{}
			added++
		}
	}
	if added > 0 {
		h.logger.Debug("inequalities separated", "count", added)
	}

	return added, nil
}
