// Package metrics provides Prometheus metrics collection for the application.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Webhook metrics
	WebhooksReceivedTotal *prometheus.CounterVec

	// Conversation metrics
	MessagesProcessedTotal *prometheus.CounterVec
	GlobalCommandsTotal    *prometheus.CounterVec
	ProcessDuration        prometheus.Histogram
	SessionsActive         prometheus.Gauge
	ExpertRequestsTotal    prometheus.Counter
	BookingsConfirmedTotal prometheus.Counter

	// Outbound send metrics
	MessagesSentTotal *prometheus.CounterVec
	SendDuration      prometheus.Histogram

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips prometheus.Counter

	// Rate limiting metrics
	RateLimitHitsTotal *prometheus.CounterVec

	// Registry used for this metrics instance
	registry prometheus.Gatherer
}

// NewMetrics creates a new Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	m := newMetricsWithRegistry(prometheus.DefaultRegisterer)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewMetricsWithRegistry creates metrics using a custom registry (for testing).
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := newMetricsWithRegistry(reg)
	m.registry = reg
	return m
}

func newMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatapp_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatapp_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Webhook metrics
		WebhooksReceivedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_webhooks_received_total",
				Help: "Total number of webhook deliveries by outcome",
			},
			[]string{"outcome"}, // "message", "status", "ignored", "invalid", "parse_error", "rate_limited"
		),

		// Conversation metrics
		MessagesProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_messages_processed_total",
				Help: "Total number of inbound messages processed by conversation step",
			},
			[]string{"step"},
		),
		GlobalCommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_global_commands_total",
				Help: "Total number of global commands handled by command",
			},
			[]string{"command"},
		),
		ProcessDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatapp_message_process_duration_seconds",
				Help:    "Time taken to run one message through the conversation engine",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatapp_sessions_active",
				Help: "Number of conversation sessions currently held in memory",
			},
		),
		ExpertRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatapp_expert_requests_total",
				Help: "Total number of conversations escalated to a human expert",
			},
		),
		BookingsConfirmedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatapp_bookings_confirmed_total",
				Help: "Total number of confirmed bookings",
			},
		),

		// Outbound send metrics
		MessagesSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_messages_sent_total",
				Help: "Total number of outbound sends by message kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: "text", "interactive"
		),
		SendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatapp_message_send_duration_seconds",
				Help:    "Duration of outbound provider API calls",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		// Circuit breaker metrics
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chatapp_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatapp_circuit_breaker_trips_total",
				Help: "Total number of times the circuit breaker has tripped",
			},
		),

		// Rate limiting metrics
		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatapp_rate_limit_hits_total",
				Help: "Total number of rate limit hits by limiter",
			},
			[]string{"limiter"}, // "ip", "sender_minute", "sender_hour"
		),
	}
}

// Handler returns the Prometheus HTTP handler for scraping metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware returns an HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Normalize path for metrics (avoid high cardinality)
		path := normalizePath(r.URL.Path)

		m.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			path,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		m.HTTPRequestDuration.WithLabelValues(
			r.Method,
			path,
		).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// normalizePath normalizes URL paths to prevent high cardinality labels.
func normalizePath(path string) string {
	switch path {
	case "/", "/webhook", "/health", "/ready", "/live", "/metrics":
		return path
	}

	if strings.HasPrefix(path, "/session/") {
		return "/session/:id"
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	return path
}

// Helper methods for recording specific events

// RecordWebhook records a webhook delivery outcome.
func (m *Metrics) RecordWebhook(outcome string) {
	m.WebhooksReceivedTotal.WithLabelValues(outcome).Inc()
}

// RecordMessageProcessed records one engine pass, labeled by the step the
// session was on when the message arrived.
func (m *Metrics) RecordMessageProcessed(step string, duration time.Duration) {
	m.MessagesProcessedTotal.WithLabelValues(step).Inc()
	m.ProcessDuration.Observe(duration.Seconds())
}

// RecordGlobalCommand records one handled global command.
func (m *Metrics) RecordGlobalCommand(command string) {
	m.GlobalCommandsTotal.WithLabelValues(command).Inc()
}

// RecordMessageSent records an outbound send attempt.
func (m *Metrics) RecordMessageSent(kind string, success bool, duration time.Duration) {
	outcome := outcomeFailure
	if success {
		outcome = outcomeSuccess
	}
	m.MessagesSentTotal.WithLabelValues(kind, outcome).Inc()
	m.SendDuration.Observe(duration.Seconds())
}

// RecordExpertRequest records an escalation to a human expert.
func (m *Metrics) RecordExpertRequest() {
	m.ExpertRequestsTotal.Inc()
}

// RecordBookingConfirmed records a confirmed booking.
func (m *Metrics) RecordBookingConfirmed() {
	m.BookingsConfirmedTotal.Inc()
}

// SetActiveSessions sets the number of active sessions.
func (m *Metrics) SetActiveSessions(count int) {
	m.SessionsActive.Set(float64(count))
}

// SetCircuitBreakerState sets the circuit breaker state for a service.
// State: 0=closed, 1=half-open, 2=open
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitOpen records a circuit breaker opening.
func (m *Metrics) RecordCircuitOpen() {
	m.CircuitBreakerTrips.Inc()
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHitsTotal.WithLabelValues(limiter).Inc()
}
