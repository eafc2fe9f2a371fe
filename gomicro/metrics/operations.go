package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// OperationMetrics tracks domain operations and store latency for a service,
// prefixed with the configured metrics prefix.
type OperationMetrics struct {
	operations  *prometheus.CounterVec
	dbDurations *prometheus.HistogramVec
}

// NewOperationMetrics creates and registers the domain operation collectors
func NewOperationMetrics(prefix string, reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &OperationMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of domain operations",
			},
			[]string{"entity", "operation"},
		),
		dbDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
	}
	reg.MustRegister(m.operations, m.dbDurations)
	return m
}

// Record increments the counter for an entity operation. Safe on a nil receiver.
func (m *OperationMetrics) Record(entity, operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(entity, operation).Inc()
}

// TrackDB returns a function that records the duration of a database operation
func (m *OperationMetrics) TrackDB(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.dbDurations.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// Count returns the current value of an operation counter
func (m *OperationMetrics) Count(entity, operation string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.operations.WithLabelValues(entity, operation))
}

func counterValue(c prometheus.Counter) float64 {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		return 0
	}
	return out.GetCounter().GetValue()
}
