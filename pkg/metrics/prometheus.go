// Package metrics provides Prometheus metrics for the radar comparison service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset Metrics - what the process loaded at startup
	datasetPlayers         prometheus.Gauge
	datasetTeams           prometheus.Gauge
	datasetLeagues         prometheus.Gauge
	datasetMetrics         prometheus.Gauge
	datasetUnresolvedTeams prometheus.Gauge
	datasetRowsDropped     *prometheus.CounterVec
	datasetLoadDurationMs  prometheus.Gauge
	datasetLoadedUnix      prometheus.Gauge

	// Chart Metrics
	radarBuilds       prometheus.Counter
	radarBuildLatency prometheus.Histogram
	validationErrors  *prometheus.CounterVec
	optionQueries     *prometheus.CounterVec
	chartRenders      *prometheus.CounterVec
	chartRenderMs     prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global holds the process-wide manager and the registry it writes to.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[global] //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// registry, so no default Go metrics are exported. Call it before serving;
// metrics recorded earlier are dropped with the previous registry.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	current.Store(&global{manager: NewManager(opts...), registry: registry})
}

func globalManager() *Manager { return current.Load().manager }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "radar",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	m.datasetPlayers = m.gauge("dataset_players", "Number of players loaded")
	m.datasetTeams = m.gauge("dataset_teams", "Number of teams with at least one player")
	m.datasetLeagues = m.gauge("dataset_leagues", "Number of leagues in the lookup table")
	m.datasetMetrics = m.gauge("dataset_metrics", "Number of comparable metrics")
	m.datasetUnresolvedTeams = m.gauge("dataset_unresolved_teams", "Teams whose league is missing from the lookup")
	m.datasetRowsDropped = m.counterVec("dataset_rows_dropped_total", "Rows discarded by the cleaning policy", "reason")
	m.datasetLoadDurationMs = m.gauge("dataset_load_duration_milliseconds", "Duration of the startup load")
	m.datasetLoadedUnix = m.gauge("dataset_loaded_unix", "Unix time of the last successful load")

	m.radarBuilds = m.counter("radar_builds_total", "Total number of radar charts built")
	m.radarBuildLatency = m.histogram("radar_build_latency_milliseconds", "Histogram of radar build latency in milliseconds")
	m.validationErrors = m.counterVec("validation_errors_total", "Rejected chart requests by kind", "kind")
	m.optionQueries = m.counterVec("option_queries_total", "Selection list derivations by list", "list")
	m.chartRenders = m.counterVec("chart_renders_total", "Rendered chart images by format", "format")
	m.chartRenderMs = m.histogram("chart_render_latency_milliseconds", "Histogram of chart image render latency in milliseconds")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type",
		"endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that failed", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds")
}

// DatasetSize carries the counts reported by UpdateDataset.
type DatasetSize struct {
	Players, Teams, Leagues, Metrics, UnresolvedTeams int
}

// UpdateDataset sets the dataset gauges.
func (m *Manager) UpdateDataset(s DatasetSize) {
	m.datasetPlayers.Set(float64(s.Players))
	m.datasetTeams.Set(float64(s.Teams))
	m.datasetLeagues.Set(float64(s.Leagues))
	m.datasetMetrics.Set(float64(s.Metrics))
	m.datasetUnresolvedTeams.Set(float64(s.UnresolvedTeams))
}

// RecordRowsDropped adds n dropped rows for reason.
func (m *Manager) RecordRowsDropped(reason string, n int) {
	m.datasetRowsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordDatasetLoad records a successful load.
func (m *Manager) RecordDatasetLoad(durationMs float64, unix int64) {
	m.datasetLoadDurationMs.Set(durationMs)
	m.datasetLoadedUnix.Set(float64(unix))
}

// RecordRadarBuild counts a built chart and its latency.
func (m *Manager) RecordRadarBuild(latencyMs float64) {
	m.radarBuilds.Inc()
	m.radarBuildLatency.Observe(latencyMs)
}

// RecordValidationError counts a rejected chart request.
func (m *Manager) RecordValidationError(kind string) {
	m.validationErrors.WithLabelValues(kind).Inc()
}

// RecordOptionQuery counts a selection list derivation.
func (m *Manager) RecordOptionQuery(list string) {
	m.optionQueries.WithLabelValues(list).Inc()
}

// RecordChartRender counts a rendered image and its latency.
func (m *Manager) RecordChartRender(format string, latencyMs float64) {
	m.chartRenders.WithLabelValues(format).Inc()
	m.chartRenderMs.Observe(latencyMs)
}

// Package-level helpers record on the global manager.

// UpdateDataset sets the dataset gauges.
func UpdateDataset(s DatasetSize) { globalManager().UpdateDataset(s) }

// RecordRowsDropped adds n dropped rows for reason.
func RecordRowsDropped(reason string, n int) { globalManager().RecordRowsDropped(reason, n) }

// RecordDatasetLoad records a successful load.
func RecordDatasetLoad(durationMs float64, unix int64) {
	globalManager().RecordDatasetLoad(durationMs, unix)
}

// RecordRadarBuild counts a built chart and its latency.
func RecordRadarBuild(latencyMs float64) { globalManager().RecordRadarBuild(latencyMs) }

// RecordValidationError counts a rejected chart request.
func RecordValidationError(kind string) { globalManager().RecordValidationError(kind) }

// RecordOptionQuery counts a selection list derivation.
func RecordOptionQuery(list string) { globalManager().RecordOptionQuery(list) }

// RecordChartRender counts a rendered image and its latency.
func RecordChartRender(format string, latencyMs float64) {
	globalManager().RecordChartRender(format, latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager().errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager().errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager().errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
