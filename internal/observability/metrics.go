package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gloryharbor_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gloryharbor_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthAttempts counts login and registration attempts by action and outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gloryharbor_auth_attempts_total",
		Help: "Total authentication attempts by action and outcome",
	}, []string{"action", "outcome"})

	// SermonSeedRuns counts fallback catalog seed runs by outcome.
	SermonSeedRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gloryharbor_sermon_seed_runs_total",
		Help: "Total fallback sermon seed runs by outcome",
	}, []string{"outcome"})

	// UploadsTotal counts file uploads by kind (thumbnail, avatar) and outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gloryharbor_uploads_total",
		Help: "Total file uploads by kind and outcome",
	}, []string{"kind", "outcome"})

	// ContactSubmissions counts contact form submissions.
	ContactSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gloryharbor_contact_submissions_total",
		Help: "Total contact form submissions",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
