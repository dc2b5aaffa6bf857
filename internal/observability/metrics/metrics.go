package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solax_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportRunsTotal   *prometheus.CounterVec
	reportRunLatency  *prometheus.HistogramVec
	sourceFetchTotal  *prometheus.CounterVec
	sourceLatency     *prometheus.HistogramVec
	invalidSamples    *prometheus.CounterVec
	reconciledRows    prometheus.Counter
	estimatedRows     prometheus.Counter
	reconcileGaps     *prometheus.CounterVec
	historyAppends    *prometheus.CounterVec
	exportTotal       *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
)

// Init registers the report metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		reportRunsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_runs_total",
				Help: "Total report runs by result",
			},
			[]string{"result"},
		)
		reportRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_run_latency_seconds",
				Help:    "Report run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		sourceFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "source_fetch_total",
				Help: "Total source reads by source and result",
			},
			[]string{"source", "result"},
		)
		sourceLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "source_fetch_latency_seconds",
				Help:    "Source read latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)
		invalidSamples = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invalid_samples_total",
				Help: "Raw rows skipped at decode time by reason",
			},
			[]string{"reason"},
		)
		reconciledRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconciled_rows_total",
				Help: "Total reconciled interval rows",
			},
		)
		estimatedRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "estimated_rows_total",
				Help: "Reconciled rows built from a floor-filled gross reading",
			},
		)
		reconcileGaps = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconcile_gaps_total",
				Help: "Dropped intervals by reason",
			},
			[]string{"reason"},
		)
		historyAppends = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "history_appends_total",
				Help: "History ledger appends by result",
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)
		notificationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Report notifications by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			reportRunsTotal,
			reportRunLatency,
			sourceFetchTotal,
			sourceLatency,
			invalidSamples,
			reconciledRows,
			estimatedRows,
			reconcileGaps,
			historyAppends,
			exportTotal,
			notificationTotal,
		)
	})
}

// ObserveReportRun records report run duration and result.
func ObserveReportRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reportRunsTotal != nil {
		reportRunsTotal.WithLabelValues(result).Inc()
	}
	if reportRunLatency != nil {
		reportRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSourceFetch records a source read.
func ObserveSourceFetch(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if sourceFetchTotal != nil {
		sourceFetchTotal.WithLabelValues(source, result).Inc()
	}
	if sourceLatency != nil {
		sourceLatency.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// AddInvalidSamples increments the skipped raw row counter.
func AddInvalidSamples(reason string, count int) {
	if count <= 0 {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	if invalidSamples != nil {
		invalidSamples.WithLabelValues(reason).Add(float64(count))
	}
}

// AddReconciled records the rows of a reconciliation.
func AddReconciled(rows, estimated int) {
	if reconciledRows != nil && rows > 0 {
		reconciledRows.Add(float64(rows))
	}
	if estimatedRows != nil && estimated > 0 {
		estimatedRows.Add(float64(estimated))
	}
}

// IncReconcileGap increments the dropped interval counter.
func IncReconcileGap(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if reconcileGaps != nil {
		reconcileGaps.WithLabelValues(reason).Inc()
	}
}

// IncHistoryAppend increments the history append counter.
func IncHistoryAppend(result string) {
	if result == "" {
		result = resultSuccess
	}
	if historyAppends != nil {
		historyAppends.WithLabelValues(result).Inc()
	}
}

// IncExport increments the export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// IncNotification increments the notification counter.
func IncNotification(result string) {
	if result == "" {
		result = resultSuccess
	}
	if notificationTotal != nil {
		notificationTotal.WithLabelValues(result).Inc()
	}
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultError    = resultError
	ResultExisting = "existing"
)
