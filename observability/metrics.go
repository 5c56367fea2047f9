package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	// Refresh/analysis metrics
	RefreshTotal        *prometheus.CounterVec
	RefreshDuration     *prometheus.HistogramVec
	RefreshErrorsTotal  *prometheus.CounterVec
	RecommendationTotal *prometheus.CounterVec
	RSIValues           *prometheus.HistogramVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// rsiBuckets cover the oscillator's [0, 100] range with the 30/70 decision
// thresholds on bucket edges.
var rsiBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "refresh",
				Name:      "requests_total",
				Help:      "Total number of per-symbol refresh requests",
			},
			[]string{"symbol"},
		),
		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockboard",
				Subsystem: "refresh",
				Name:      "duration_seconds",
				Help:      "Duration of per-symbol refreshes in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"symbol", "status"},
		),
		RefreshErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "refresh",
				Name:      "errors_total",
				Help:      "Total number of refresh errors",
			},
			[]string{"symbol", "error_type"},
		),
		RecommendationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "recommendation",
				Name:      "labels_total",
				Help:      "Total number of recommendations by label",
			},
			[]string{"label"},
		),
		RSIValues: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockboard",
				Subsystem: "recommendation",
				Name:      "rsi",
				Help:      "Distribution of latest RSI values at evaluation time",
				Buckets:   rsiBuckets,
			},
			[]string{"symbol"},
		),

		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockboard",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockboard",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stockboard",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockboard",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordRefresh records a per-symbol refresh request
func (m *Metrics) RecordRefresh(symbol string) {
	m.RefreshTotal.WithLabelValues(symbol).Inc()
}

// RecordRefreshDuration records the duration of a refresh
func (m *Metrics) RecordRefreshDuration(symbol, status string, duration time.Duration) {
	m.RefreshDuration.WithLabelValues(symbol, status).Observe(duration.Seconds())
}

// RecordRefreshError records a refresh error
func (m *Metrics) RecordRefreshError(symbol, errorType string) {
	m.RefreshErrorsTotal.WithLabelValues(symbol, errorType).Inc()
}

// RecordRecommendation records a recommendation label
func (m *Metrics) RecordRecommendation(label string) {
	m.RecommendationTotal.WithLabelValues(label).Inc()
}

// RecordRSI records the latest RSI value observed for a symbol
func (m *Metrics) RecordRSI(symbol string, rsi float64) {
	m.RSIValues.WithLabelValues(symbol).Observe(rsi)
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveRefresh records the refresh duration and status
func (t *Timer) ObserveRefresh(symbol, status string) {
	t.metrics.RecordRefreshDuration(symbol, status, time.Since(t.start))
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
