package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics tracks scheduled digest runs.
//
//   - worker_digest_runs_total{status}: runs by status (success, partial, failure)
//   - worker_digest_duration_seconds: duration of a run over all feeds
//   - worker_digest_feeds_total{result}: feeds digested by result
//   - worker_digest_items_total{result}: items summarized by result
//   - worker_digest_last_success_timestamp: Unix time of the last successful run
type WorkerMetrics struct {
	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	FeedsTotal           *prometheus.CounterVec
	ItemsTotal           *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg. A nil reg uses
// the default registerer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &WorkerMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_runs_total",
			Help: "Total number of digest runs by status (success/partial/failure)",
		}, []string{"status"}),

		DurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_duration_seconds",
			Help:    "Duration of a digest run over all feeds in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800},
		}),

		FeedsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_feeds_total",
			Help: "Total number of feeds digested by result (success/failure)",
		}, []string{"result"}),

		ItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_items_total",
			Help: "Total number of feed items summarized by result (success/failure)",
		}, []string{"result"}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_last_success_timestamp",
			Help: "Unix timestamp of the last digest run without feed failures",
		}),
	}
}

// RecordRun counts a finished run and observes its duration in seconds.
func (m *WorkerMetrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.DurationSeconds.Observe(seconds)
	if status == StatusSuccess {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordFeed counts one digested feed and its items.
func (m *WorkerMetrics) RecordFeed(ok bool, items, failedItems int) {
	if !ok {
		m.FeedsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.FeedsTotal.WithLabelValues("success").Inc()
	m.ItemsTotal.WithLabelValues("success").Add(float64(items - failedItems))
	m.ItemsTotal.WithLabelValues("failure").Add(float64(failedItems))
}
