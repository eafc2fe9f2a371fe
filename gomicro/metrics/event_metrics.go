package metrics

import "github.com/prometheus/client_golang/prometheus"

// Publish outcomes recorded by EventMetrics
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
	OutcomeDisabled  = "disabled"
)

// EventMetrics counts best-effort domain event publish attempts
type EventMetrics struct {
	ServiceName string
	published   *prometheus.CounterVec
}

// NewEventMetrics creates and registers the event publish counter
func NewEventMetrics(serviceName string, reg prometheus.Registerer) *EventMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &EventMetrics{
		ServiceName: serviceName,
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Domain event publish attempts by outcome",
			},
			[]string{"service", "exchange", "routing_key", "outcome"},
		),
	}
	reg.MustRegister(m.published)
	return m
}

// Record increments the counter for one publish attempt. Safe on a nil receiver.
func (m *EventMetrics) Record(exchange, routingKey, outcome string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(m.ServiceName, exchange, routingKey, outcome).Inc()
}

// Count returns the current value for a label set, used by tests and health output
func (m *EventMetrics) Count(exchange, routingKey, outcome string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.published.WithLabelValues(m.ServiceName, exchange, routingKey, outcome))
}
