// SPDX-License-Identifier: MIT

// Package colgen implements the column-generation layer of a branch-and-price
// search: the per-node master/pricing/cut loop, the parallel pricing manager
// and the cut handler, together with the collaborator contracts they consume.
//
// What:
//
//   - Column / Inequality: value types exchanged with collaborators.
//     ColumnBase is an embeddable implementation of the bookkeeping part of
//     Column; user columns only add Key() and their payload.
//   - PricingProblem: dual information (ModifiedCosts, DualConstant) written by
//     the master once per iteration, plus the active column set.
//   - PricingManager: runs one pricing tier (one solver per pricing problem)
//     on a bounded worker pool, all-or-nothing per call.
//   - CutHandler: asks cut generators for inequalities violated by the current
//     fractional point and registers them with the master.
//   - Loop: master solve → pricing tiers → cuts, until neither columns nor
//     cuts are found, the bound closes the gap, or the cutoff is exceeded.
//
// Contracts (see types.go):
//
//   - Master, PricingSolver, CutGenerator are implemented by the caller.
//   - Every deadline-bound call returns ErrTimeLimit (or StatusTimedOut for
//     master solves) instead of unwinding the stack.
//   - ErrDuplicateColumn is a programming error in a pricing solver: a column
//     with a reduced cost that should have been non-negative was priced again.
//
// Concurrency:
//
//   - Loop and CutHandler run on the caller's goroutine only.
//   - PricingManager fans out for the duration of SolveTier and joins before
//     returning; dual vectors are read-only while a tier runs.
//
// Complexity (per iteration):
//
//   - Master: whatever the collaborator costs.
//   - Pricing: max over solvers when maxParallelism ≥ #pricing problems.
//   - Duplicate detection: O(1) expected per generated column (hash on Key).
package colgen
