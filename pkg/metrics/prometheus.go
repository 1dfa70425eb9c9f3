// Package metrics provides Prometheus metrics for the rating engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Rating pipeline
	matchesApplied    prometheus.Counter
	matchesRejected   *prometheus.CounterVec
	matchApplyLatency prometheus.Histogram
	eventsProcessed   prometheus.Counter
	eventsSkipped     *prometheus.CounterVec
	eventWarnings     *prometheus.CounterVec
	ratingClamps      *prometheus.CounterVec
	carryOvers        *prometheus.CounterVec
	seasons           *prometheus.CounterVec
	trackedEntities   *prometheus.GaugeVec

	// Job queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerActiveCount  prometheus.Gauge
	jobsProcessed      prometheus.Counter
	jobDuration        prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "handball",
		subsystem:        "elo",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesApplied = m.counter("matches_applied_total", "Matches whose rating deltas were committed")
	m.matchesRejected = m.counterVec("matches_rejected_total", "Matches rejected before any state change", "reason")
	m.matchApplyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_apply_duration_milliseconds",
		Help:      "Time spent attributing, rating and committing one match",
		Buckets:   m.histogramBuckets,
	})
	m.eventsProcessed = m.counter("events_processed_total", "Events that reached rating computation")
	m.eventsSkipped = m.counterVec("events_skipped_total", "Events excluded from rating computation", "reason")
	m.eventWarnings = m.counterVec("event_warnings_total", "Non-fatal attribution warnings", "warning")
	m.ratingClamps = m.counterVec("rating_clamps_total", "Rating writes clamped into bounds", "scope")
	m.carryOvers = m.counterVec("carryover_initializations_total", "Season starting ratings computed", "source")
	m.seasons = m.counterVec("seasons_total", "Season boundary transitions", "phase")
	m.trackedEntities = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_entities",
		Help:      "Rated entities per kind",
	}, []string{"kind"})

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the league queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the league queue")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs refused by the queue")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently running a job")
	m.jobsProcessed = m.counter("jobs_processed_total", "League jobs finished")
	m.jobDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_duration_seconds",
		Help:      "Wall time of one league job",
		Buckets:   prometheus.DefBuckets,
	})

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordMatchApplied counts a committed match and its latency.
func RecordMatchApplied(latencyMs float64) {
	globalManager.matchesApplied.Inc()
	globalManager.matchApplyLatency.Observe(latencyMs)
}

// RecordMatchRejected counts a match refused before any state change.
func RecordMatchRejected(reason string) {
	globalManager.matchesRejected.WithLabelValues(reason).Inc()
}

// RecordEventProcessed counts an event used for rating.
func RecordEventProcessed() {
	globalManager.eventsProcessed.Inc()
}

// RecordEventSkipped counts an event excluded from rating.
func RecordEventSkipped(reason string) {
	globalManager.eventsSkipped.WithLabelValues(reason).Inc()
}

// RecordEventWarning counts a non-fatal attribution warning.
func RecordEventWarning(warning string) {
	globalManager.eventWarnings.WithLabelValues(warning).Inc()
}

// RecordRatingClamp counts a clamped rating write; scope is "season" or "aggregate".
func RecordRatingClamp(scope string) {
	globalManager.ratingClamps.WithLabelValues(scope).Inc()
}

// RecordCarryOver counts a season initialization; source is "default" or "blend".
func RecordCarryOver(source string) {
	globalManager.carryOvers.WithLabelValues(source).Inc()
}

// RecordSeason counts a season start or end.
func RecordSeason(phase string) {
	globalManager.seasons.WithLabelValues(phase).Inc()
}

// UpdateTrackedEntities sets the number of rated entities of kind.
func UpdateTrackedEntities(kind string, count int) {
	globalManager.trackedEntities.WithLabelValues(kind).Set(float64(count))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a delivered job.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a refused job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordJobProcessed counts a finished job and its duration.
func RecordJobProcessed(seconds float64) {
	globalManager.jobsProcessed.Inc()
	globalManager.jobDuration.Observe(seconds)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
