// Package metrics exposes a solver's search statistics as Prometheus
// collectors, following the metrics registration style used throughout
// operator-framework-operator-lifecycle-manager (one struct of collectors,
// registered once, updated by a pull-based Collect method rather than
// scattering Inc() calls through the hot path).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// StatsSource is the read-only view the core exposes of its own search
// statistics (internal/sat.Solver implements it via Solver.Stats).
type StatsSource interface {
	Conflicts() int64
	Decisions() int64
	Propagations() int64
	Restarts() int64
	LearntClauses() int64
}

// Collector adapts a StatsSource to prometheus.Collector, reading the
// solver's counters only when scraped so the solver's hot loop never pays
// for metrics plumbing.
type Collector struct {
	source StatsSource

	conflicts    *prometheus.Desc
	decisions    *prometheus.Desc
	propagations *prometheus.Desc
	restarts     *prometheus.Desc
	learnts      *prometheus.Desc
}

// NewCollector returns a Collector reading from source. Register it with a
// prometheus.Registry the way any other collector is registered; nothing
// here assumes a global registry.
func NewCollector(source StatsSource, namespace string) *Collector {
	return &Collector{
		source:       source,
		conflicts:    prometheus.NewDesc(namespace+"_conflicts_total", "Total number of conflicts encountered.", nil, nil),
		decisions:    prometheus.NewDesc(namespace+"_decisions_total", "Total number of branching decisions made.", nil, nil),
		propagations: prometheus.NewDesc(namespace+"_propagations_total", "Total number of literals propagated.", nil, nil),
		restarts:     prometheus.NewDesc(namespace+"_restarts_total", "Total number of search restarts.", nil, nil),
		learnts:      prometheus.NewDesc(namespace+"_learnt_clauses", "Number of clauses currently in the learnt database.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.conflicts
	ch <- c.decisions
	ch <- c.propagations
	ch <- c.restarts
	ch <- c.learnts
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.conflicts, prometheus.CounterValue, float64(c.source.Conflicts()))
	ch <- prometheus.MustNewConstMetric(c.decisions, prometheus.CounterValue, float64(c.source.Decisions()))
	ch <- prometheus.MustNewConstMetric(c.propagations, prometheus.CounterValue, float64(c.source.Propagations()))
	ch <- prometheus.MustNewConstMetric(c.restarts, prometheus.CounterValue, float64(c.source.Restarts()))
	ch <- prometheus.MustNewConstMetric(c.learnts, prometheus.GaugeValue, float64(c.source.LearntClauses()))
}
