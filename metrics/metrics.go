// Package metrics exposes Prometheus counters for projection traffic.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "roi_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	projectionTotal   *prometheus.CounterVec
	projectionLatency *prometheus.HistogramVec

	breakEvenReached *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	scenarioOperations *prometheus.CounterVec

	leadsTotal *prometheus.CounterVec
)

// Init registers projection metrics and DB-backed gauges.
func Init(db *sql.DB, logger logrus.FieldLogger) {
	registerOnce.Do(func() {
		projectionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "projection_total",
				Help: "Total projection runs by result",
			},
			[]string{"result"},
		)
		projectionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "projection_latency_seconds",
				Help:    "Projection latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		breakEvenReached = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "projection_break_even_total",
				Help: "Successful projections by whether break-even fell inside the horizon",
			},
			[]string{"reached"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total projection exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Projection export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		scenarioOperations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "scenario_operations_total",
				Help: "Saved scenario operations by operation and result",
			},
			[]string{"operation", "result"},
		)
		leadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "leads_total",
				Help: "Captured leads by appointment request",
			},
			[]string{"appointment"},
		)

		prometheus.MustRegister(
			projectionTotal,
			projectionLatency,
			breakEvenReached,
			exportTotal,
			exportLatency,
			scenarioOperations,
			leadsTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProjection records projection duration and result.
func ObserveProjection(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if projectionTotal != nil {
		projectionTotal.WithLabelValues(result).Inc()
	}
	if projectionLatency != nil {
		projectionLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncBreakEven counts whether a projection broke even within its horizon.
func IncBreakEven(reached bool) {
	if breakEvenReached != nil {
		breakEvenReached.WithLabelValues(strconv.FormatBool(reached)).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncScenarioOperation counts save/get/delete/project calls on saved scenarios.
func IncScenarioOperation(operation, result string) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if scenarioOperations != nil {
		scenarioOperations.WithLabelValues(operation, result).Inc()
	}
}

// IncLead increments the lead counter.
func IncLead(bookAppointment bool) {
	if leadsTotal != nil {
		leadsTotal.WithLabelValues(strconv.FormatBool(bookAppointment)).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
