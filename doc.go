// SPDX-License-Identifier: MIT

// Package branchprice is a generic branch-and-price engine: a best-first,
// depth-first or breadth-first tree search whose nodes are solved by column
// generation.
//
// The module is organized by concern:
//
//	colgen/   column generation: columns, pricing problems, the tiered
//	          pricing manager (bounded worker pool), cut handling and the
//	          per-node column-generation loop
//	bap/      the branch-and-price engine: nodes, branching decisions, the
//	          applier that moves shared model state between nodes, the open
//	          node queue, events, settings, Prometheus metrics and tracing
//	lp/       a small dense simplex for covering LPs (min c·x, A·x ≥ b)
//	coloring/ a complete reference application: exact graph colouring by
//	          branch-and-price with Ryan–Foster branching
//
// The engine only knows the collaborator interfaces of colgen and bap; any
// master LP, pricing algorithm, cut generator and branching rule can be
// plugged in. A typical run:
//
//	res, err := coloring.Solve(ctx, coloring.Petersen(),
//		coloring.WithEngineOptions(bap.WithNodeOrder(bap.BestBound)))
//	// res.NumColors == 3, res.Optimal == true
//
//	go get github.com/katalvlaran/branchprice
package branchprice
