// Package metrics provides Prometheus metrics for the classrank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the classrank service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core business metrics
	eventsProcessed *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	eventsRejected  *prometheus.CounterVec
	tierChanges     *prometheus.CounterVec
	scoringLatency  prometheus.Histogram
	studentsTotal   *prometheus.GaugeVec
	trackResets     *prometheus.CounterVec
	questionReviews *prometheus.CounterVec
	tierResolves    *prometheus.CounterVec
	exports         prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository
	repositoryUpdateLatency *prometheus.HistogramVec
	repositoryQueryLatency  *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry served on /metrics. Only the runtime and process
// collectors are added to it; nothing else from the default registry.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // served on /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	customRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers every metric.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "classrank",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsProcessed = auto.NewCounterVec(m.counterOpts("events_processed_total", "Events scored and applied, by track"), []string{"track"})
	m.eventsDuplicate = auto.NewCounter(m.counterOpts("events_duplicate_total", "Events dropped because their id was already seen"))
	m.eventsRejected = auto.NewCounterVec(m.counterOpts("events_rejected_total", "Events rejected before scoring, by reason"), []string{"reason"})
	m.tierChanges = auto.NewCounterVec(m.counterOpts("tier_changes_total", "Tier promotions and demotions, by track"), []string{"track", "direction"})
	m.scoringLatency = auto.NewHistogram(m.histogramOpts("scoring_latency_milliseconds", "Time to score an event and apply it to the store"))
	m.studentsTotal = auto.NewGaugeVec(m.gaugeOpts("students_total", "Students with a score, by track"), []string{"track"})
	m.trackResets = auto.NewCounterVec(m.counterOpts("track_resets_total", "Track resets, by track"), []string{"track"})
	m.questionReviews = auto.NewCounterVec(m.counterOpts("question_reviews_total", "Question drafts reviewed, by grade"), []string{"grade"})
	m.tierResolves = auto.NewCounterVec(m.counterOpts("tier_resolves_total", "Rank resolutions served, by track"), []string{"track"})
	m.exports = auto.NewCounter(m.counterOpts("leaderboard_exports_total", "Leaderboard workbooks exported"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.repositoryUpdateLatency = auto.NewHistogramVec(m.histogramOpts("repository_update_latency_milliseconds", "Store write latency"), []string{"backend"})
	m.repositoryQueryLatency = auto.NewHistogramVec(m.histogramOpts("repository_query_latency_milliseconds", "Store read latency"), []string{"backend"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Events waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Events enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Events dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Events refused because the queue was full or closed"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently processing an event"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Per-event processing time in workers"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Events a worker failed to process"))

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total", "Errors by component and type"), []string{"component", "type"})
}

// RecordEventProcessed increments the processed counter for track.
func RecordEventProcessed(track string) {
	globalManager.eventsProcessed.WithLabelValues(track).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordEventRejected counts an event refused for reason.
func RecordEventRejected(reason string) {
	globalManager.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordTierChange counts a promotion or demotion on track.
func RecordTierChange(track, direction string) {
	globalManager.tierChanges.WithLabelValues(track, direction).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// UpdateStudentsTotal sets the student count for track.
func UpdateStudentsTotal(track string, count int) {
	globalManager.studentsTotal.WithLabelValues(track).Set(float64(count))
}

// RecordTrackReset counts a reset of track.
func RecordTrackReset(track string) {
	globalManager.trackResets.WithLabelValues(track).Inc()
}

// RecordQuestionReview counts a reviewed draft by grade.
func RecordQuestionReview(grade string) {
	globalManager.questionReviews.WithLabelValues(grade).Inc()
}

// RecordTierResolve counts a rank resolution served for track.
func RecordTierResolve(track string) {
	globalManager.tierResolves.WithLabelValues(track).Inc()
}

// RecordExport counts an exported workbook.
func RecordExport() {
	globalManager.exports.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRepositoryUpdateLatency records a store write on backend.
func RecordRepositoryUpdateLatency(backend string, latencyMs float64) {
	globalManager.repositoryUpdateLatency.WithLabelValues(backend).Observe(latencyMs)
}

// RecordRepositoryQueryLatency records a store read on backend.
func RecordRepositoryQueryLatency(backend string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(backend).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets how many workers are busy.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-event worker latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent counts an error of errorType raised by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
