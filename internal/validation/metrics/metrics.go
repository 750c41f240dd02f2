package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation pipeline.
type Metrics struct {
	// Per-stage latencies: quality, tamper, hash, ocr, format, coherence.
	StageLatency *prometheus.HistogramVec

	// Decision outcomes by status and document type.
	Outcome *prometheus.CounterVec

	// Overall per-document pipeline latency.
	ValidateLatency prometheus.Histogram

	// Duplicate uploads detected.
	Duplicates prometheus.Counter
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veridoc_validation_stage_duration_seconds",
			Help:    "Duration of validation pipeline stages by stage name",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		Outcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_validation_outcomes_total",
			Help: "Total validation outcomes by status and document type",
		}, []string{"status", "document_type"}),

		ValidateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_validation_duration_seconds",
			Help:    "Duration of the full per-document validation pipeline",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		Duplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veridoc_validation_duplicates_total",
			Help: "Total uploads flagged as duplicates of previously seen content",
		}),
	}
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(status, documentType string) {
	if m != nil {
		m.Outcome.WithLabelValues(status, documentType).Inc()
	}
}

// ObserveValidate records the total pipeline duration for one document.
func (m *Metrics) ObserveValidate(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}

// IncrementDuplicates records a detected duplicate upload.
func (m *Metrics) IncrementDuplicates() {
	if m != nil {
		m.Duplicates.Inc()
	}
}
