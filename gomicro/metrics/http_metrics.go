package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the request collectors for a single service
type HTTPMetrics struct {
	ServiceName string

	requestCounter        *prometheus.CounterVec
	requestDuration       *prometheus.HistogramVec
	statusOkCounter       *prometheus.CounterVec
	statusClientErrors    *prometheus.CounterVec
	statusServerErrors    *prometheus.CounterVec
	statusCategoryCounter *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers the HTTP collectors for a service.
// A nil registerer uses the prometheus default registry.
func NewHTTPMetrics(serviceName string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &HTTPMetrics{
		ServiceName: serviceName,
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusOkCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_2xx_total",
				Help: "Total number of 2xx (success) responses",
			},
			[]string{"service"},
		),
		statusClientErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_4xx_total",
				Help: "Total number of 4xx (client error) responses",
			},
			[]string{"service"},
		),
		statusServerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_5xx_total",
				Help: "Total number of 5xx (server error) responses",
			},
			[]string{"service"},
		),
		statusCategoryCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.statusOkCounter,
		m.statusClientErrors,
		m.statusServerErrors,
		m.statusCategoryCounter,
	)
	return m
}

func (m *HTTPMetrics) incrementStatusCounter(status int, method, path string) {
	category := ""

	switch {
	case status >= 200 && status < 300:
		m.statusOkCounter.WithLabelValues(m.ServiceName).Inc()
		category = "2xx"
	case status >= 400 && status < 500:
		m.statusClientErrors.WithLabelValues(m.ServiceName).Inc()
		category = "4xx"
	case status >= 500 && status < 600:
		m.statusServerErrors.WithLabelValues(m.ServiceName).Inc()
		category = "5xx"
	}

	if category != "" {
		m.statusCategoryCounter.WithLabelValues(m.ServiceName, category, method, path).Inc()
	}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			m.incrementStatusCounter(status, method, path)
			m.requestDuration.WithLabelValues(m.ServiceName, method, path, statusStr).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
