// Package metrics exposes Prometheus instruments for the reference auth server
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "authform"

// Operation labels
const (
	OpLogin    = "login"
	OpRegister = "register"
	OpMe       = "me"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2}

// AuthMetrics tracks the login and register endpoints. A nil *AuthMetrics records nothing
type AuthMetrics struct {
	Attempts *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Requests *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewAuthMetrics registers on a fresh registry that also carries the Go and process collectors
func NewAuthMetrics(namespace string) *AuthMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewAuthMetricsWithRegistry(namespace, reg, reg)
}

// NewAuthMetricsWithRegistry lets tests inject their own registry
// A nil gatherer serves the default registry
func NewAuthMetricsWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *AuthMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	factory := promauto.With(reg)

	return &AuthMetrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Login and register attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "auth_duration_seconds",
				Help:      "Latency of login and register handling",
				Buckets:   durationBuckets,
			},
			[]string{"operation", "outcome"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		gatherer: gatherer,
	}
}

// ObserveAttempt counts one attempt and its latency
func (m *AuthMetrics) ObserveAttempt(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeSuccess
	}
	m.Attempts.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *AuthMetrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Instrument counts every request served by next under route
func (m *AuthMetrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
