// SPDX-License-Identifier: MIT

// Package lp solves the small covering linear programs used as restricted
// master problems:
//
//	min  cᵀx   s.t.  A x ≥ b,  x ≥ 0        (c ≥ 0)
//
// What:
//
//   - Solve returns the primal solution x, the row duals y (the values a
//     column-generation pricing step needs) and the shared objective value.
//   - The simplex runs on the dual  max bᵀy s.t. Aᵀy ≤ c, y ≥ 0. Because
//     c ≥ 0 the origin is dual feasible, so no phase one is needed; x is read
//     off the reduced costs of the dual slacks at optimality.
//   - A dual that is unbounded means the covering program is infeasible
//     (ErrInfeasible).
//
// Determinism: Bland's rule (smallest index enters, smallest basic index
// leaves on ties) guarantees termination on degenerate programs and makes
// results reproducible.
//
// Storage: one dense row-major tableau of (n+1)×(m+n+1) float64 values for n
// columns and m rows.
//
// Complexity: each pivot is O(n·(m+n)); the pivot count is small in
// practice but exponential in the worst case. Solve honours ctx and returns
// ErrTimeLimit once it is done.
package lp
