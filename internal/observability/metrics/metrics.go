package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "solarfarm_"

	resultSuccess  = "success"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
	resultError    = "error"
)

var (
	registerOnce sync.Once

	panelOperationsTotal  *prometheus.CounterVec
	panelOperationLatency *prometheus.HistogramVec

	reportExportsTotal  *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec
)

// Init registers metrics and, when count is set, the stored panels gauge.
func Init(count PanelCounter, logger *zap.Logger) {
	registerOnce.Do(func() {
		panelOperationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "panel_operations_total",
				Help: "Total panel service operations by operation and result",
			},
			[]string{"operation", "result"},
		)
		panelOperationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "panel_operation_latency_seconds",
				Help:    "Panel service operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		)
		reportExportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total section report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Section report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			panelOperationsTotal,
			panelOperationLatency,
			reportExportsTotal,
			reportExportLatency,
		)

		if count != nil {
			registerStoreMetrics(count, logger)
		}
	})
}

// ObservePanelOperation records a service operation's latency and result.
func ObservePanelOperation(operation, result string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if panelOperationsTotal != nil {
		panelOperationsTotal.WithLabelValues(operation, result).Inc()
	}
	if panelOperationLatency != nil {
		panelOperationLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records report export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportsTotal != nil {
		reportExportsTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultInvalid  = resultInvalid
	ResultNotFound = resultNotFound
	ResultError    = resultError
)
