package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"workmgmt/pkg/domain"
)

// Operation outcomes recorded in workmgmt_operations_total.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	persistFailures prometheus.Counter
	nodes           *prometheus.GaugeVec
}

// NewMetrics registers the service collectors with reg. A nil reg creates a
// private registry, available through Registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workmgmt_operations_total",
			Help: "Hierarchy operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workmgmt_operation_duration_seconds",
			Help:    "Time spent applying hierarchy operations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workmgmt_persist_failures_total",
			Help: "Failed attempts to save the document record.",
		}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "workmgmt_nodes",
			Help: "Nodes in the committed document per hierarchy level.",
		}, []string{"level"}),
	}
	if reg == nil {
		m.registry = prometheus.NewRegistry()
		reg = m.registry
	}
	reg.MustRegister(m.operations, m.duration, m.persistFailures, m.nodes)
	return m
}

// Registry returns the private registry, or nil when an external registerer was supplied.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(operation, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) persistFailed() { m.persistFailures.Inc() }

func (m *Metrics) setNodes(counts map[domain.EntityType]int) {
	for _, level := range domain.Levels {
		m.nodes.WithLabelValues(string(level)).Set(float64(counts[level]))
	}
}
