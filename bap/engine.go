// SPDX-License-Identifier: MIT

// Package bap: the branch-and-price engine.
package bap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/branchprice/colgen"
)

// MasterFactory builds the master of node. The master must start with
// node.Columns and node.Inequalities and honour the decisions in
// node.Decisions (already applied by the engine when the factory is called).
type MasterFactory[C colgen.Column] func(ctx context.Context, node *Node[C]) (colgen.Master[C], error)

// ArtificialFactory builds the artificial column of pp with the given cost.
// Together with the inherited columns it must make a node's master feasible.
type ArtificialFactory[C colgen.Column] func(pp *colgen.PricingProblem[C], cost float64) C

// Problem bundles the problem-specific collaborators of a search.
type Problem[C colgen.Column] struct {
	Pricing    []*colgen.PricingProblem[C]
	Tiers      []colgen.Tier[C]
	NewMaster  MasterFactory[C]
	Artificial ArtificialFactory[C]
	Creators   []BranchCreator[C]
	Cuts       []colgen.CutGenerator[C]

	RootColumns      []C
	RootInequalities []colgen.Inequality

	// Integral decides whether a master solution is integral; nil checks
	// every column value against the engine precision.
	Integral func(solution []C) bool
}

// Engine runs branch-and-price over a Problem.
//
// Thread Safety: an Engine is not safe for concurrent use; Run must not be
// called concurrently with itself, WarmStart or Close.
type Engine[C colgen.Column] struct {
	problem  Problem[C]
	opts     Options
	runID    string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *Metrics
	manager  *colgen.PricingManager[C]
	cuts     *colgen.CutHandler[C]
	loopOpts []colgen.LoopOption
	integral func([]C) bool

	applier *Applier[C]
	factory *NodeFactory[C]
	queue   *nodeQueue[C]
	root    *Node[C]

	incumbent       []C
	incumbentValues []float64
	incumbentObj    float64

	stats    Stats
	runStart time.Time
	closed   bool
}

// NewEngine validates problem, instantiates every pricing solver and queues
// the root node.
//
// Errors: ErrNilMaster, ErrNoArtificial, ErrNoCreators, and the
// colgen.NewPricingManager errors.
func NewEngine[C colgen.Column](problem Problem[C], opts ...Option) (*Engine[C], error) {
	var cfg = DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case problem.NewMaster == nil:
		return nil, ErrNilMaster
	case problem.Artificial == nil:
		return nil, ErrNoArtificial
	case len(problem.Creators) == 0:
		return nil, ErrNoCreators
	}

	runID := uuid.NewString()
	logger := cfg.Logger.With("component", "bap", "run_id", runID)

	manager, err := colgen.NewPricingManager(problem.Pricing, problem.Tiers,
		colgen.WithMaxParallelism(cfg.MaxParallelism),
		colgen.WithManagerLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	less := cfg.Less
	if less == nil {
		less = lessFor(cfg.Order, cfg.Sense)
	}

	e := &Engine[C]{
		problem:      problem,
		opts:         cfg,
		runID:        runID,
		logger:       logger,
		tracer:       newTracer(cfg.TracerProvider),
		metrics:      cfg.Metrics,
		manager:      manager,
		applier:      NewApplier[C](),
		factory:      &NodeFactory[C]{},
		queue:        newNodeQueue[C](less),
		incumbentObj: cfg.Sense.Worst(),
	}
	if cfg.CutsEnabled && len(problem.Cuts) > 0 {
		e.cuts = colgen.NewCutHandler(problem.Cuts...).WithLogger(logger)
	}
	e.loopOpts = []colgen.LoopOption{
		colgen.WithSense(cfg.Sense),
		colgen.WithPrecision(cfg.Precision),
		colgen.WithIntegralObjective(cfg.IntegralObjective),
		colgen.WithLogger(logger),
	}
	if cfg.Bound != nil {
		e.loopOpts = append(e.loopOpts, colgen.WithBound(cfg.Bound))
	}
	e.integral = problem.Integral
	if e.integral == nil {
		eps := cfg.Precision
		e.integral = func(sol []C) bool { return colgen.IntegralSolution(sol, eps) }
	}

	e.root = e.factory.Root(problem.RootColumns, problem.RootInequalities, cfg.Sense.Weakest())
	e.queue.push(e.root)

	return e, nil
}

// RunID returns the engine's run identifier, also attached to logs, spans and events.
func (e *Engine[C]) RunID() string { return e.runID }

// Stats returns the accumulated counters.
func (e *Engine[C]) Stats() Stats { return e.stats }

// Incumbent returns the best known objective and solution (nil when none).
func (e *Engine[C]) Incumbent() (float64, []C) {
	e.restoreIncumbent()

	return e.incumbentObj, slices.Clone(e.incumbent)
}

// WarmStart offers a known feasible solution. It becomes the incumbent when
// it beats the current one; while the root is unsolved its columns also join
// the root's initial columns. Solution columns must carry their values.
func (e *Engine[C]) WarmStart(objective float64, solution []C) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.root.Status == NodePending {
		known := make(map[string]struct{}, len(e.root.Columns))
		for _, col := range e.root.Columns {
			known[col.Key()] = struct{}{}
		}
		for _, col := range solution {
			if _, dup := known[col.Key()]; dup || col.Artificial() {
				continue
			}
			known[col.Key()] = struct{}{}
			e.root.Columns = append(e.root.Columns, col)
		}
	}
	e.offer(objective, solution)

	return nil
}

// Run searches until the queue is empty, the time limit passes or ctx ends.
//
// A run interrupted by the time limit (or by ctx's deadline) returns a
// feasible-or-unknown Result and a nil error; calling Run again resumes the
// search. Cancellation returns the partial Result together with ctx.Err().
// Collaborator failures, colgen.ErrDuplicateColumn and ErrNoBranch abort
// the run and are returned.
func (e *Engine[C]) Run(ctx context.Context) (Result[C], error) {
	if e.closed {
		return Result[C]{RunID: e.runID}, ErrEngineClosed
	}

	e.runStart = time.Now()
	deadline := e.deadline(ctx)

	ctx, span := startRunSpan(ctx, e.tracer, e.runID, e.queue.Len())
	e.logger.Info("branch and price started",
		"open_nodes", e.queue.Len(),
		"order", e.opts.Order.String(),
		"sense", e.opts.Sense.String(),
		"time_limit", e.opts.TimeLimit,
	)
	e.emit(Event{Kind: EventRunStarted, NodeID: -1, ParentID: -1, Bound: e.opts.Sense.Weakest()})

	var (
		stopped bool
		err     error
	)
	for e.queue.Len() > 0 {
		if ctx.Err() != nil || (!deadline.IsZero() && !time.Now().Before(deadline)) {
			stopped = true
			break
		}
		node := e.queue.pop()
		e.metrics.setOpen(e.queue.Len())

		if err = e.process(ctx, node, deadline); err != nil {
			if errors.Is(err, colgen.ErrTimeLimit) || ctx.Err() != nil {
				e.requeue(node)
				e.logger.Info("time limit reached", "node", node.ID)
				stopped = true
				err = nil
				break
			}
			e.logger.Error("branch and price aborted", "node", node.ID, "error", err)
			break
		}
	}
	if err == nil && errors.Is(ctx.Err(), context.Canceled) {
		err = ctx.Err()
	}
	e.stats.Elapsed += time.Since(e.runStart)

	res := e.result(!stopped && err == nil)
	e.emit(Event{
		Kind:      EventRunFinished,
		NodeID:    -1,
		ParentID:  -1,
		Bound:     res.Bound,
		Objective: res.Objective,
	})
	e.logger.Info("branch and price finished",
		"status", res.Status.String(),
		"objective", res.Objective,
		"bound", res.Bound,
		"nodes", e.stats.NodesProcessed,
		"open_nodes", res.OpenNodes,
		"elapsed", e.stats.Elapsed,
	)
	endSpan(span, err,
		attribute.String("bap.status", res.Status.String()),
		attribute.Float64("bap.objective", res.Objective),
		attribute.Float64("bap.bound", res.Bound),
		attribute.Int("bap.nodes", e.stats.NodesProcessed),
	)

	return res, err
}

// Close rewinds all applied decisions and releases the pricing solvers.
// Safe to call more than once.
func (e *Engine[C]) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.applier.Reset()

	return e.manager.Close()
}

// deadline combines the configured time limit with ctx's deadline.
func (e *Engine[C]) deadline(ctx context.Context) time.Time {
	var deadline time.Time
	if e.opts.TimeLimit > 0 {
		deadline = e.runStart.Add(e.opts.TimeLimit)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	return deadline
}

// process prunes or solves one popped node.
func (e *Engine[C]) process(ctx context.Context, node *Node[C], deadline time.Time) error {
	e.stats.NodesProcessed++
	e.stats.MaxDepth = max(e.stats.MaxDepth, node.Depth())

	if e.prunable(node.Bound) {
		e.finish(node, NodePruned)
		return nil
	}

	ctx, span := startNodeSpan(ctx, e.tracer, node)
	err := e.solve(ctx, node, deadline)
	endSpan(span, err,
		attribute.String("bap.node_status", node.Status.String()),
		attribute.Float64("bap.node_bound", node.Bound),
	)

	return err
}

// solve runs column generation on node and classifies the outcome.
func (e *Engine[C]) solve(ctx context.Context, node *Node[C], deadline time.Time) error {
	node.Status = NodeSolving
	e.emit(e.nodeEvent(EventNodeStarted, node))

	e.applier.TransitionTo(node)
	if !node.IsRoot() {
		node.Columns = e.withArtificial(node.Columns)
	}

	master, err := e.problem.NewMaster(ctx, node)
	if err != nil {
		return fmt.Errorf("node %d: master: %w", node.ID, err)
	}
	defer func() {
		if cerr := master.Close(); cerr != nil {
			e.logger.Warn("master close failed", "node", node.ID, "error", cerr)
		}
	}()

	loopOpts := e.loopOpts
	if fn := e.opts.IterationObserver; fn != nil {
		id := node.ID
		loopOpts = append(slices.Clip(loopOpts), colgen.WithIterationObserver(func(ev colgen.IterationEvent) { fn(id, ev) }))
	}
	loop, err := colgen.NewLoop(master, e.manager, e.cuts, loopOpts...)
	if err != nil {
		return fmt.Errorf("node %d: %w", node.ID, err)
	}

	res, err := loop.Run(ctx, deadline, e.incumbentObj, node.Bound)
	e.account(res)
	if err != nil {
		return fmt.Errorf("node %d: %w", node.ID, err)
	}

	node.Objective = res.Objective
	node.Bound = e.opts.Sense.Tighter(node.Bound, res.Bound)
	node.Solution = res.Solution
	node.Columns = nonArtificial(master.Columns())
	node.Inequalities = slices.Clone(master.Inequalities())
	e.metrics.setBound(node.Bound)

	switch {
	case res.Infeasible, res.Converged && colgen.HasArtificial(res.Solution):
		e.finish(node, NodeInfeasible)
	case e.prunable(node.Bound):
		e.finish(node, NodePruned)
	case colgen.HasArtificial(res.Solution):
		e.finish(node, NodeInfeasible)
	case e.integral(res.Solution):
		e.offer(res.Objective, res.Solution)
		e.finish(node, NodeIntegral)
	default:
		return e.branch(node)
	}

	return nil
}

// branch asks the creators, in order, for the children of a fractional node.
func (e *Engine[C]) branch(node *Node[C]) error {
	for _, bc := range e.problem.Creators {
		if !bc.CanBranch(node.Solution) {
			continue
		}
		children := bc.Branch(node, e.factory)
		if len(children) == 0 {
			continue
		}

		ids := make([]int, 0, len(children))
		for _, child := range children {
			child.Bound = e.opts.Sense.Tighter(child.Bound, node.Bound)
			child.Status = NodePending
			e.queue.push(child)
			ids = append(ids, child.ID)
		}
		e.metrics.setOpen(e.queue.Len())

		node.Status = NodeFractional
		e.stats.NodesBranched++
		e.metrics.node(outcomeBranched)
		ev := e.nodeEvent(EventNodeBranched, node)
		ev.Children = ids
		e.emit(ev)
		e.logger.Debug("node branched",
			"node", node.ID,
			"creator", bc.Name(),
			"children", ids,
			"bound", node.Bound,
		)

		// Children hold their own copies.
		node.Columns, node.Inequalities, node.Solution = nil, nil, nil

		return nil
	}

	return fmt.Errorf("node %d: %w", node.ID, ErrNoBranch)
}

// finish records a terminal node status.
func (e *Engine[C]) finish(node *Node[C], status NodeStatus) {
	node.Status = status

	var kind EventKind
	switch status {
	case NodePruned:
		e.stats.NodesPruned++
		e.metrics.node(outcomePruned)
		kind = EventNodePruned
	case NodeInfeasible:
		e.stats.NodesInfeasible++
		e.metrics.node(outcomeInfeasible)
		kind = EventNodeInfeasible
	case NodeIntegral:
		e.stats.NodesIntegral++
		e.metrics.node(outcomeIntegral)
		kind = EventNodeIntegral
	}
	e.emit(e.nodeEvent(kind, node))
	e.logger.Debug("node closed",
		"node", node.ID,
		"status", status.String(),
		"bound", node.Bound,
		"incumbent", e.incumbentObj,
	)
}

// requeue puts an interrupted node back in the queue.
func (e *Engine[C]) requeue(node *Node[C]) {
	node.Status = NodePending
	e.queue.push(node)
	e.stats.NodesRequeued++
	e.metrics.node(outcomeRequeued)
	e.metrics.setOpen(e.queue.Len())
	e.emit(e.nodeEvent(EventNodeRequeued, node))
}

// offer replaces the incumbent when objective strictly improves it.
func (e *Engine[C]) offer(objective float64, solution []C) {
	if !e.opts.Sense.Better(objective, e.incumbentObj, e.opts.Precision) {
		return
	}
	e.incumbentObj = objective
	e.incumbent = slices.Clone(solution)
	e.incumbentValues = make([]float64, len(solution))
	for i, col := range solution {
		e.incumbentValues[i] = col.Value()
	}
	e.stats.IncumbentUpdates++
	e.metrics.setIncumbent(objective)
	e.emit(Event{Kind: EventIncumbent, NodeID: -1, ParentID: -1, Objective: objective})
	e.logger.Info("new incumbent", "objective", objective, "columns", len(solution))
}

// prunable reports whether a node with bound cannot improve the incumbent.
func (e *Engine[C]) prunable(bound float64) bool {
	var (
		sense = e.opts.Sense
		eps   = e.opts.Precision
	)
	if math.IsNaN(bound) {
		return false
	}
	if e.opts.IntegralObjective {
		bound = sense.Round(bound, eps)
	}

	return !sense.Better(bound, e.incumbentObj, eps)
}

// withArtificial strips inherited artificial columns and adds one fresh
// artificial column per pricing problem.
func (e *Engine[C]) withArtificial(columns []C) []C {
	out := nonArtificial(columns)
	for _, pp := range e.problem.Pricing {
		out = append(out, e.problem.Artificial(pp, e.opts.ArtificialCost))
	}

	return out
}

// account folds one loop's statistics into the engine's.
func (e *Engine[C]) account(res colgen.LoopResult[C]) {
	e.stats.Iterations += res.Iterations
	e.stats.ColumnsGenerated += res.ColumnsGenerated
	e.stats.CutsAdded += res.CutsAdded
	e.stats.MasterTime += res.MasterTime
	e.stats.PricingTime += res.PricingTime
	e.stats.CutTime += res.CutTime
	e.metrics.loop(res.Iterations, res.ColumnsGenerated, res.CutsAdded, res.MasterTime, res.PricingTime, res.CutTime)
}

// result assembles the run outcome.
func (e *Engine[C]) result(completed bool) Result[C] {
	var (
		sense = e.opts.Sense
		found = e.incumbent != nil
		res   = Result[C]{
			RunID:     e.runID,
			Objective: e.incumbentObj,
			OpenNodes: e.queue.Len(),
			Stats:     e.stats,
		}
	)
	if found {
		e.restoreIncumbent()
		res.Solution = slices.Clone(e.incumbent)
	}

	switch {
	case completed && found:
		res.Status, res.Optimal, res.Bound = StatusOptimal, true, e.incumbentObj
	case completed:
		res.Status, res.Optimal, res.Bound = StatusInfeasible, true, sense.Worst()
	case found:
		res.Status, res.Bound = StatusFeasible, e.queue.loosest(sense, e.incumbentObj)
	default:
		res.Status, res.Bound = StatusUnknown, e.queue.loosest(sense, e.incumbentObj)
	}

	return res
}

// restoreIncumbent writes the incumbent's values back into its columns;
// later master solves may have overwritten them.
func (e *Engine[C]) restoreIncumbent() {
	for i, col := range e.incumbent {
		col.SetValue(e.incumbentValues[i])
	}
}

func (e *Engine[C]) nodeEvent(kind EventKind, node *Node[C]) Event {
	return Event{
		Kind:      kind,
		NodeID:    node.ID,
		ParentID:  node.ParentID(),
		Depth:     node.Depth(),
		Bound:     node.Bound,
		Objective: node.Objective,
	}
}

func (e *Engine[C]) emit(ev Event) {
	if len(e.opts.Observers) == 0 {
		return
	}
	ev.RunID = e.runID
	ev.Incumbent = e.incumbentObj
	ev.Elapsed = time.Since(e.runStart)
	ev.Iterations = e.stats.Iterations
	for _, fn := range e.opts.Observers {
		fn(ev)
	}
}

func nonArtificial[C colgen.Column](columns []C) []C {
	out := make([]C, 0, len(columns))
	for _, col := range columns {
		if !col.Artificial() {
			out = append(out, col)
		}
	}

	return out
}
