// Package metrics provides Prometheus metrics for the dmasviz loaders and viewer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric exported by the tool.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	// Loader metrics
	rowsLoaded   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadErrors   *prometheus.CounterVec

	// Model size
	satellites prometheus.Gauge
	tasks      prometheus.Gauge
	subtasks   prometheus.Gauge

	// Chart rendering
	renderDuration prometheus.Histogram
	seriesRendered prometheus.Gauge

	// Batch runs
	jobsProcessed *prometheus.CounterVec
	jobDuration   prometheus.Histogram
	workersActive prometheus.Gauge

	// HTTP viewer
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry keeps Go runtime metrics out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dmasviz",
		subsystem:        "results",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_loaded_total",
		Help:      "Data rows read from simulation output files, header excluded",
	}, []string{"file"})

	m.loadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_duration_milliseconds",
		Help:      "Time spent loading one simulation output file",
		Buckets:   m.histogramBuckets,
	}, []string{"file"})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_errors_total",
		Help:      "Aborted loads by file and error kind",
	}, []string{"file", "kind"})

	m.satellites = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "satellites",
		Help:      "Satellites named in the last loaded power header",
	})

	m.tasks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks",
		Help:      "Tasks in the last loaded score tree",
	})

	m.subtasks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subtasks",
		Help:      "Subtasks in the last loaded score tree",
	})

	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Time spent rendering the power chart",
		Buckets:   m.histogramBuckets,
	})

	m.seriesRendered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "series_rendered",
		Help:      "Line series drawn on the last rendered chart",
	})

	m.jobsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_processed_total",
		Help:      "Problem statements processed by the batch pool, by outcome",
	}, []string{"status"})

	m.jobDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_duration_milliseconds",
		Help:      "Time spent loading and plotting one problem statement",
		Buckets:   m.histogramBuckets,
	})

	m.workersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workers_active",
		Help:      "Batch workers currently running a job",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Viewer HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Viewer HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRowsLoaded adds n data rows read from file.
func (m *Manager) RecordRowsLoaded(file string, n int) {
	if !m.enabled {
		return
	}
	m.rowsLoaded.WithLabelValues(file).Add(float64(n))
}

// RecordLoadDuration observes the load time of one file.
func (m *Manager) RecordLoadDuration(file string, ms float64) {
	if !m.enabled {
		return
	}
	m.loadDuration.WithLabelValues(file).Observe(ms)
}

// RecordLoadError counts an aborted load.
func (m *Manager) RecordLoadError(file, kind string) {
	if !m.enabled {
		return
	}
	m.loadErrors.WithLabelValues(file, kind).Inc()
}

// UpdateSatellites sets the satellite gauge.
func (m *Manager) UpdateSatellites(n int) {
	if !m.enabled {
		return
	}
	m.satellites.Set(float64(n))
}

// UpdateScoreTree sets the task and subtask gauges.
func (m *Manager) UpdateScoreTree(tasks, subtasks int) {
	if !m.enabled {
		return
	}
	m.tasks.Set(float64(tasks))
	m.subtasks.Set(float64(subtasks))
}

// RecordRender observes a chart render.
func (m *Manager) RecordRender(ms float64, series int) {
	if !m.enabled {
		return
	}
	m.renderDuration.Observe(ms)
	m.seriesRendered.Set(float64(series))
}

// RecordJob counts a finished batch job and observes its duration.
func (m *Manager) RecordJob(status string, ms float64) {
	if !m.enabled {
		return
	}
	m.jobsProcessed.WithLabelValues(status).Inc()
	m.jobDuration.Observe(ms)
}

// AddActiveWorkers moves the active worker gauge by delta.
func (m *Manager) AddActiveWorkers(delta int) {
	if !m.enabled {
		return
	}
	m.workersActive.Add(float64(delta))
}

// RecordHTTPRequest counts a viewer request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, ms float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// Gatherer returns what a scrape of this manager's collectors reads from.
func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Global returns the process-wide manager. It is registered on a private
// registry, so Go runtime metrics are left out.
func Global() *Manager {
	return globalManager
}
