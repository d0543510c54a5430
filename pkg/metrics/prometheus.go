// Package metrics provides Prometheus metrics for the hackboard judging service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Aggregate life cycle
	eventsCreated prometheus.Counter
	eventsDeleted prometheus.Counter
	totalEvents   prometheus.Gauge

	// Registration and judging
	teamsRegistered  prometheus.Counter
	judgesRegistered prometheus.Counter
	scoreSubmissions prometheus.Counter
	scoreEntries     prometheus.Counter

	// Failure tracking
	validationFailures *prometheus.CounterVec
	versionConflicts   prometheus.Counter
	upstreamFailures   *prometheus.CounterVec

	// Store performance
	storeOpLatency *prometheus.HistogramVec

	// Leaderboard
	leaderboardBuilds        prometheus.Counter
	leaderboardBuildDuration prometheus.Histogram

	// Notification side-channel
	notificationsDelivered prometheus.Counter
	notificationsDropped   prometheus.Counter
	notifyQueueSize        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so the default Go collectors stay out of /healthz output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hackboard",
		subsystem:        "judging",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_created_total",
		Help:      "Total number of competition events created",
	})

	m.eventsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_deleted_total",
		Help:      "Total number of competition events deleted",
	})

	m.totalEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_total",
		Help:      "Current number of events in the store",
	})

	m.teamsRegistered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_registered_total",
		Help:      "Total number of teams registered across all events",
	})

	m.judgesRegistered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judges_registered_total",
		Help:      "Total number of judge registrations (including re-registrations)",
	})

	m.scoreSubmissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_submissions_total",
		Help:      "Total number of accepted score submission calls",
	})

	m.scoreEntries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_entries_total",
		Help:      "Total number of individual score entries written",
	})

	m.validationFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_failures_total",
			Help:      "Total number of rejected requests by component",
		},
		[]string{"component"},
	)

	m.versionConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "version_conflicts_total",
		Help:      "Total number of optimistic-concurrency conflicts on document replace",
	})

	m.upstreamFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_failures_total",
			Help:      "Total number of collaborator failures by collaborator",
		},
		[]string{"collaborator"},
	)

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_op_duration_milliseconds",
			Help:      "Event store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"op"},
	)

	m.leaderboardBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_builds_total",
		Help:      "Total number of leaderboard computations",
	})

	m.leaderboardBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_build_duration_milliseconds",
		Help:      "Leaderboard computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.notificationsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_delivered_total",
		Help:      "Total number of judge-interest notifications delivered",
	})

	m.notificationsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped (queue full or delivery failed)",
	})

	m.notifyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_size",
		Help:      "Current depth of the notification queue",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method, and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the registry backing the global manager, for promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers delegating to the global manager.

func RecordEventCreated() {
	if globalManager.enabled {
		globalManager.eventsCreated.Inc()
	}
}

func RecordEventDeleted() {
	if globalManager.enabled {
		globalManager.eventsDeleted.Inc()
	}
}

func UpdateTotalEvents(n int) {
	if globalManager.enabled {
		globalManager.totalEvents.Set(float64(n))
	}
}

func RecordTeamRegistered() {
	if globalManager.enabled {
		globalManager.teamsRegistered.Inc()
	}
}

func RecordJudgeRegistered() {
	if globalManager.enabled {
		globalManager.judgesRegistered.Inc()
	}
}

// RecordScoreSubmission records one accepted submission carrying n entries.
func RecordScoreSubmission(n int) {
	if globalManager.enabled {
		globalManager.scoreSubmissions.Inc()
		globalManager.scoreEntries.Add(float64(n))
	}
}

func RecordValidationFailure(component string) {
	if globalManager.enabled {
		globalManager.validationFailures.WithLabelValues(component).Inc()
	}
}

func RecordVersionConflict() {
	if globalManager.enabled {
		globalManager.versionConflicts.Inc()
	}
}

func RecordUpstreamFailure(collaborator string) {
	if globalManager.enabled {
		globalManager.upstreamFailures.WithLabelValues(collaborator).Inc()
	}
}

func RecordStoreOp(op string, durationMs float64) {
	if globalManager.enabled {
		globalManager.storeOpLatency.WithLabelValues(op).Observe(durationMs)
	}
}

func RecordLeaderboardBuild(durationMs float64) {
	if globalManager.enabled {
		globalManager.leaderboardBuilds.Inc()
		globalManager.leaderboardBuildDuration.Observe(durationMs)
	}
}

func RecordNotificationDelivered() {
	if globalManager.enabled {
		globalManager.notificationsDelivered.Inc()
	}
}

func RecordNotificationDropped() {
	if globalManager.enabled {
		globalManager.notificationsDropped.Inc()
	}
}

func UpdateNotifyQueueSize(n int) {
	if globalManager.enabled {
		globalManager.notifyQueueSize.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}
