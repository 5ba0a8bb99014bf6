package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Studio operation counter
	StudioOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_operations_total",
			Help: "Total number of studio operations",
		},
		[]string{"operation"}, // operation can be "create", "update", "remove_member", etc.
	)

	// Discussion operation counter
	DiscussionOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_discussion_operations_total",
			Help: "Total number of discussion operations",
		},
		[]string{"operation"},
	)

	// Post operation counter
	PostOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_post_operations_total",
			Help: "Total number of post operations",
		},
		[]string{"operation"},
	)

	// Schedule operation counter
	ScheduleOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_schedule_operations_total",
			Help: "Total number of schedule operations",
		},
		[]string{"operation"},
	)

	// Invitation operation counter
	InvitationOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_invitation_operations_total",
			Help: "Total number of invitation operations",
		},
		[]string{"operation"}, // operation can be "invite", "accept", "list", etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)

	// Domain error counter by taxonomy class
	DomainErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_domain_errors_total",
			Help: "Total number of domain errors by class",
		},
		[]string{"class"}, // class can be "validation", "permission_denied", "not_found", "conflict"
	)

	// Broadcast counter by event
	BroadcastCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_broadcasts_total",
			Help: "Total number of realtime events fanned out",
		},
		[]string{"event"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active websocket connections
	ActiveConnectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studio_active_connections",
			Help: "Number of currently connected websocket subscribers",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "studio_info",
			Help: "Information about the studio service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(StudioOperationCounter)
	prometheus.MustRegister(DiscussionOperationCounter)
	prometheus.MustRegister(PostOperationCounter)
	prometheus.MustRegister(ScheduleOperationCounter)
	prometheus.MustRegister(InvitationOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(DomainErrorCounter)
	prometheus.MustRegister(BroadcastCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveConnectionsGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveConnections increments the websocket connections gauge
func IncreaseActiveConnections() {
	ActiveConnectionsGauge.Inc()
}

// DecreaseActiveConnections decrements the websocket connections gauge
func DecreaseActiveConnections() {
	ActiveConnectionsGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordDomainError records a domain error by taxonomy class
func RecordDomainError(class string) {
	DomainErrorCounter.With(prometheus.Labels{"class": class}).Inc()
}

// RecordStudioOperation records a studio operation
func RecordStudioOperation(operation string) {
	StudioOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordDiscussionOperation records a discussion operation
func RecordDiscussionOperation(operation string) {
	DiscussionOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordPostOperation records a post operation
func RecordPostOperation(operation string) {
	PostOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordScheduleOperation records a schedule operation
func RecordScheduleOperation(operation string) {
	ScheduleOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordInvitationOperation records an invitation operation
func RecordInvitationOperation(operation string) {
	InvitationOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordBroadcast records a realtime fan-out by event name
func RecordBroadcast(event string) {
	BroadcastCounter.With(prometheus.Labels{"event": event}).Inc()
}
