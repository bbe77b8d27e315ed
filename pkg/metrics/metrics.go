// Package metrics is Prometheus metrics of the REST server.
//
// Metrics:
//
//   - voipinv_api_requests_total: requests by method, route and status code.
//   - voipinv_api_request_duration_seconds: request latency by method and route.
//   - voipinv_filter_constraints_total: results of filter sets by collection and outcome.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voipinv"

// outcomes of filter sets.
const (
	// some records are filtered out.
	Constrained = "constrained"

	// no filter takes effect.
	Unconstrained = "unconstrained"

	// no record can be selected, without querying.
	Empty = "empty"
)

type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	constraints *prometheus.CounterVec
}

// New creates metrics and registers them into registry.
//
// If registry is nil, a new registry with process and go collectors is used.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		constraints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "filter",
				Name:      "constraints_total",
				Help:      "Number of filter set results by outcome",
			},
			[]string{"collection", "outcome"},
		),
	}
	registry.MustRegister(m.requests, m.duration, m.constraints)
	return m
}

// Outcome classifies a constraint.
func Outcome(c query.Constraint) string {
	switch {
	case c.IsNone():
		return Unconstrained
	case c.IsEmpty():
		return Empty
	default:
		return Constrained
	}
}

// ObserveConstraint counts a result of filter set for the collection.
func (m *Metrics) ObserveConstraint(collection string, c query.Constraint) {
	m.constraints.WithLabelValues(collection, Outcome(c)).Inc()
}

// Middleware records requests.
//
// Routes are labelled with route patterns (like "/api/numbers/:id/"), not with actual paths.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)

			code := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					code = he.Code
				} else {
					code = http.StatusInternalServerError
				}
			}

			method := c.Request().Method
			route := c.Path()
			m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(begin).Seconds())
			return err
		}
	}
}

// Handler serves metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
