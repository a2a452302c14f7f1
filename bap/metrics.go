// SPDX-License-Identifier: MIT

package bap

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Node outcome label values.
const (
	outcomePruned     = "pruned"
	outcomeInfeasible = "infeasible"
	outcomeIntegral   = "integral"
	outcomeBranched   = "branched"
	outcomeRequeued   = "requeued"
)

// Stage label values.
const (
	stageMaster  = "master"
	stagePricing = "pricing"
	stageCuts    = "cuts"
)

// Metrics exports search progress to Prometheus.
//
// One Metrics value registers its collectors once; share it between engines
// that report to the same registry. A nil *Metrics records nothing.
type Metrics struct {
	nodes      *prometheus.CounterVec
	iterations prometheus.Counter
	columns    prometheus.Counter
	cuts       prometheus.Counter
	stage      *prometheus.HistogramVec
	incumbent  prometheus.Gauge
	bound      prometheus.Gauge
	open       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors. Duplicate registration panics,
// as promauto does.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		nodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "branchprice",
			Subsystem: "bap",
			Name:      "nodes_total",
			Help:      "Processed search nodes by outcome.",
		}, []string{"outcome"}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "branchprice",
			Subsystem: "colgen",
			Name:      "iterations_total",
			Help:      "Column generation iterations over all nodes.",
		}),
		columns: f.NewCounter(prometheus.CounterOpts{
			Namespace: "branchprice",
			Subsystem: "colgen",
			Name:      "columns_generated_total",
			Help:      "Columns added to masters by pricing.",
		}),
		cuts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "branchprice",
			Subsystem: "colgen",
			Name:      "cuts_added_total",
			Help:      "Inequalities added to masters by separation.",
		}),
		stage: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "branchprice",
			Subsystem: "bap",
			Name:      "node_stage_seconds",
			Help:      "Time spent per node in each stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		incumbent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "branchprice",
			Subsystem: "bap",
			Name:      "incumbent_objective",
			Help:      "Objective of the best known solution.",
		}),
		bound: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "branchprice",
			Subsystem: "bap",
			Name:      "node_bound",
			Help:      "Bound of the last solved node.",
		}),
		open: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "branchprice",
			Subsystem: "bap",
			Name:      "open_nodes",
			Help:      "Nodes waiting in the queue.",
		}),
	}
}

func (m *Metrics) node(outcome string) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) loop(iterations, columns, cuts int, master, pricing, cut time.Duration) {
	if m == nil {
		return
	}
	m.iterations.Add(float64(iterations))
	m.columns.Add(float64(columns))
	m.cuts.Add(float64(cuts))
	m.stage.WithLabelValues(stageMaster).Observe(master.Seconds())
	m.stage.WithLabelValues(stagePricing).Observe(pricing.Seconds())
	m.stage.WithLabelValues(stageCuts).Observe(cut.Seconds())
}

func (m *Metrics) setIncumbent(v float64) {
	if m == nil || math.IsInf(v, 0) {
		return
	}
	m.incumbent.Set(v)
}

func (m *Metrics) setBound(v float64) {
	if m == nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return
	}
	m.bound.Set(v)
}

func (m *Metrics) setOpen(n int) {
	if m == nil {
		return
	}
	m.open.Set(float64(n))
}
