// SPDX-License-Identifier: MIT

// Package bap implements a generic branch-and-price search engine on top of
// package colgen.
//
// What:
//
//   - Engine: owns the search tree (a priority queue of open nodes), the
//     incumbent, pruning, branch dispatch and termination. Every node's LP
//     relaxation is solved by a fresh colgen.Loop over a fresh master.
//   - Applier: moves the mutable collaborator state (pricing graphs, variable
//     bounds, …) from the last solved node to the next one by rewinding and
//     applying branching decisions. Cost is proportional to the distance
//     between the two nodes in the tree, not to the tree size.
//   - NodeFactory: the only way to create child nodes. It owns the monotonic
//     node counter and filters inherited columns and inequalities through the
//     branching decision.
//   - Options / Settings: functional options and their YAML form.
//   - Observability: Observer callbacks, Prometheus metrics, OpenTelemetry spans.
//
// Node life cycle:
//
//	Pending → Solving → Pruned | Infeasible | Integral | Fractional (branched)
//
// A node whose solve hits the time limit goes back to Pending and the search
// stops; Run then reports a valid but unproven bound.
//
// Errors:
//
//   - colgen.ErrTimeLimit is never returned by Run: it ends the search with
//     Result.Optimal == false.
//   - colgen.ErrDuplicateColumn and ErrNoBranch are programming errors in
//     collaborators; Run aborts and returns them.
//
// Concurrency:
//
//   - Engine, Applier and NodeFactory are confined to the goroutine calling
//     Run. The only parallelism is inside colgen.PricingManager.SolveTier.
//
// Memory: nodes keep no parent pointers, only the root→node id path and the
// decision list, so the open tree costs O(width × depth).
package bap
