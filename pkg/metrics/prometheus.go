// Package metrics provides Prometheus metrics for the report pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a report run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline progress
	weeksProcessed prometheus.Counter
	teamsEvaluated prometheus.Counter

	// Data quality
	tiesDetected             *prometheus.CounterVec
	lineupDisqualifications  prometheus.Counter
	unknownConductCategories prometheus.Counter
	conductRecords           prometheus.Gauge

	// Collaborator latency
	datasourceLatency prometheus.Histogram
	renderLatency     prometheus.Histogram

	// Evaluation pool
	evalWorkerCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leaguemetrics",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
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

	m.weeksProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weeks_processed_total",
		Help:      "Total number of league weeks run through the metrics pipeline",
	})

	m.teamsEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_evaluated_total",
		Help:      "Total number of per-team weekly evaluations performed",
	})

	m.tiesDetected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ties_detected_total",
			Help:      "Teams involved in tie groups, by metric table",
		},
		[]string{"metric"},
	)

	m.lineupDisqualifications = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lineup_disqualifications_total",
		Help:      "Coaching efficiency disqualifications (data quality indicator)",
	})

	m.unknownConductCategories = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_conduct_categories_total",
		Help:      "Conduct incident categories missing from the severity table",
	})

	m.conductRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conduct_records",
		Help:      "Identities with at least one scored conduct incident",
	})

	m.datasourceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasource_latency_seconds",
		Help:      "Latency of league data source reads",
		Buckets:   m.histogramBuckets,
	})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_latency_seconds",
		Help:      "Latency of report rendering",
		Buckets:   m.histogramBuckets,
	})

	m.evalWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eval_worker_count",
		Help:      "Workers used for per-team weekly evaluation",
	})
}

// Package-level helpers against the global manager.

// RecordWeekProcessed increments the processed week counter.
func RecordWeekProcessed() {
	globalManager.weeksProcessed.Inc()
}

// RecordTeamEvaluated increments the per-team evaluation counter.
func RecordTeamEvaluated() {
	globalManager.teamsEvaluated.Inc()
}

// RecordTiesDetected adds the teams involved in ties for a metric table.
func RecordTiesDetected(metric string, count int) {
	if count > 0 {
		globalManager.tiesDetected.WithLabelValues(metric).Add(float64(count))
	}
}

// RecordLineupDisqualification increments the efficiency DQ counter.
func RecordLineupDisqualification() {
	globalManager.lineupDisqualifications.Inc()
}

// RecordUnknownConductCategory increments the unknown category counter.
func RecordUnknownConductCategory() {
	globalManager.unknownConductCategories.Inc()
}

// UpdateConductRecords sets the loaded conduct record gauge.
func UpdateConductRecords(count int) {
	globalManager.conductRecords.Set(float64(count))
}

// RecordDatasourceLatency observes one league data source read.
func RecordDatasourceLatency(seconds float64) {
	globalManager.datasourceLatency.Observe(seconds)
}

// RecordRenderLatency observes one report render.
func RecordRenderLatency(seconds float64) {
	globalManager.renderLatency.Observe(seconds)
}

// UpdateEvalWorkerCount sets the evaluation pool size gauge.
func UpdateEvalWorkerCount(count int) {
	globalManager.evalWorkerCount.Set(float64(count))
}

// GetRegistry returns the custom registry for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
