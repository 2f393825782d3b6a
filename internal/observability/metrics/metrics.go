package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "hydro_"

// Result labels.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	assessmentTotal   *prometheus.CounterVec
	assessmentLatency *prometheus.HistogramVec

	validationFailures *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	comparisonTotal     *prometheus.CounterVec
	comparisonScenarios prometheus.Histogram

	viabilityTotal *prometheus.CounterVec
)

// Init registers calculator metrics with the default registry. Calling it
// more than once is a no-op.
func Init() {
	registerOnce.Do(func() {
		assessmentTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "assessment_total",
				Help: "Total site assessments by result",
			},
			[]string{"result"},
		)
		assessmentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "assessment_latency_seconds",
				Help:    "Site assessment latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"result"},
		)

		validationFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_failures_total",
				Help: "Rejected input values by field",
			},
			[]string{"field"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total assessment exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Assessment export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		comparisonTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "comparison_total",
				Help: "Total scenario comparisons by result",
			},
			[]string{"result"},
		)
		comparisonScenarios = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "comparison_scenarios",
			Help:    "Scenarios per comparison request",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		})

		viabilityTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "viability_total",
				Help: "Completed assessments by viability grade",
			},
			[]string{"grade"},
		)

		prometheus.MustRegister(
			assessmentTotal,
			assessmentLatency,
			validationFailures,
			exportTotal,
			exportLatency,
			comparisonTotal,
			comparisonScenarios,
			viabilityTotal,
		)
	})
}

// ObserveAssessment records assessment latency and result.
func ObserveAssessment(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if assessmentTotal != nil {
		assessmentTotal.WithLabelValues(result).Inc()
	}
	if assessmentLatency != nil {
		assessmentLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncValidationFailure increments the rejected-input counter for field.
func IncValidationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	if validationFailures != nil {
		validationFailures.WithLabelValues(field).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveComparison records a scenario comparison and its size.
func ObserveComparison(result string, scenarios int) {
	if result == "" {
		result = ResultSuccess
	}
	if comparisonTotal != nil {
		comparisonTotal.WithLabelValues(result).Inc()
	}
	if comparisonScenarios != nil && scenarios > 0 {
		comparisonScenarios.Observe(float64(scenarios))
	}
}

// IncViability increments the counter for a viability grade.
func IncViability(grade string) {
	if grade == "" {
		grade = "unknown"
	}
	if viabilityTotal != nil {
		viabilityTotal.WithLabelValues(grade).Inc()
	}
}
