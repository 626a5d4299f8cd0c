package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"text-summarizer/internal/domain/summary"
)

// PrometheusSummaryMetrics records summarization measurements in Prometheus.
// It implements summarize.MetricsRecorder.
type PrometheusSummaryMetrics struct {
	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	inputSentences    prometheus.Histogram
	selectedSentences prometheus.Histogram
	inputLength       prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// register registers c with the default registry, returning the already
// registered collector when an identical one exists.
func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder, registering
// its collectors on first use.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			requests: register(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "summarization_requests_total",
				Help: "Summarization requests by mode and outcome (success, invalid, error)",
			}, []string{"mode", "outcome"})),
			duration: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "summarization_duration_seconds",
				Help:    "Time spent segmenting, scoring and selecting sentences",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			}, []string{"mode"})),
			inputSentences: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarization_input_sentences",
				Help:    "Number of sentences found in summarized inputs",
				Buckets: []float64{1, 3, 5, 10, 25, 50, 100, 250, 500, 1000},
			})),
			selectedSentences: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarization_selected_sentences",
				Help:    "Number of sentences kept in summaries",
				Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
			})),
			inputLength: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarization_input_length_characters",
				Help:    "Distribution of input lengths in characters (Unicode runes)",
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			})),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements summarize.MetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordRequest(mode summary.Mode, outcome string) {
	p.requests.WithLabelValues(string(mode), outcome).Inc()
}

// RecordDuration implements summarize.MetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(mode summary.Mode, d time.Duration) {
	p.duration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

// RecordSentences implements summarize.MetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordSentences(total, selected int) {
	p.inputSentences.Observe(float64(total))
	p.selectedSentences.Observe(float64(selected))
}

// RecordInputLength implements summarize.MetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordInputLength(runes int) {
	p.inputLength.Observe(float64(runes))
}
