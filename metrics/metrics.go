// Package metrics provides Prometheus observability metrics for the shift classifier.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// CaseSecondsTotal tracks classified time per case label.
// Growth in "unplanned stop in shift" is the downtime signal reports care about.
var CaseSecondsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "classifier",
	Name:      "case_seconds_total",
	Help:      "Seconds of machine time attributed to each case",
}, []string{"case"})

// MergedSecondsTotal tracks early-start and overtime time folded into a shift.
var MergedSecondsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "classifier",
	Name:      "merged_seconds_total",
	Help:      "Seconds of boundary time reassigned to a shift by policy merge",
}, []string{"case"})

// MachineDaysTotal counts classified machine-days by outcome (ok|failed).
var MachineDaysTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "classifier",
	Name:      "machine_days_total",
	Help:      "Machine-days processed by outcome",
}, []string{"outcome"})

// BatchFailedUnits tracks machine-days that failed in the last batch.
var BatchFailedUnits = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "classifier",
	Name:      "batch_failed_units",
	Help:      "Number of machine-days that failed in the most recent batch",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total run-state records successfully parsed",
})

// UnitFailuresTotal tracks machine-day failures by error type.
var UnitFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "classifier",
	Name:      "unit_failures_total",
	Help:      "Machine-day failures by error type",
}, []string{"error_type"})

// ClassifyDurationSeconds tracks time to classify one machine-day.
var ClassifyDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "classifier",
	Name:      "duration_seconds",
	Help:      "Time taken to classify one machine-day",
	Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
})

// BatchDurationSeconds tracks time to run a whole batch.
var BatchDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "classifier",
	Name:      "batch_duration_seconds",
	Help:      "Time taken to classify a batch of machine-days",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
})

// BatchUnits tracks number of machine-days per batch.
var BatchUnits = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "classifier",
	Name:      "batch_units",
	Help:      "Number of machine-days per batch",
	Buckets:   []float64{1, 7, 31, 100, 365, 1000, 5000, 10000},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetBatchGauges resets batch gauges before a new run.
// Call this at the start of RunBatch.
func ResetBatchGauges() {
	BatchFailedUnits.Set(0)
}
