// SPDX-License-Identifier: MIT

// Package coloring computes minimum vertex colourings by branch and price.
//
// It is the reference collaborator set of the engine: every colgen and bap
// interface is implemented here over a small covering LP.
//
// Formulation:
//
//	min Σ_S x_S   s.t.   Σ_{S∋v} x_S ≥ 1  (every vertex v),   x ≥ 0,
//
// where S ranges over the independent sets of the graph (colour classes).
//
// What:
//
//   - Graph: undirected, vertices 0..n-1, read/write-locked adjacency sets,
//     plus constructors (Cycle, Complete, Wheel, CompleteBipartite, Crown,
//     Petersen, Mycielski, RandomGraph).
//   - Master: the restricted LP, solved by package lp; rounding cuts add
//     rows Σ x ≥ k whose duals enter pricing as a constant.
//   - Pricing tiers: a greedy heuristic, then an exact maximum-weight
//     independent set search that also yields the Farley bound z / (w* + μ).
//   - Ryan–Foster branching: Same(u,v) merges u and v into one pricing group,
//     Differ(u,v) adds the edge u–v to the pricing graph while applied.
//   - Solve: wires everything into a bap.Engine with a first-fit warm start.
//
// Concurrency: a Model is mutated by decisions on the engine goroutine only;
// pricing solvers read it while a tier runs.
//
// Complexity: exponential in the worst case (both pricing and branching are
// exact); intended for graphs of a few dozen vertices.
package coloring
