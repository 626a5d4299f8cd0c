// Package summarizer provides the metrics recorders plugged into the
// summarization use case.
package summarizer

import (
	"time"

	"text-summarizer/internal/domain/summary"
)

// NoOp is a metrics recorder that discards everything. The CLI uses it
// since it never exposes a metrics endpoint.
type NoOp struct{}

// NewNoOp creates a new NoOp recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// RecordRequest implements summarize.MetricsRecorder.
func (*NoOp) RecordRequest(summary.Mode, string) {}

// RecordDuration implements summarize.MetricsRecorder.
func (*NoOp) RecordDuration(summary.Mode, time.Duration) {}

// RecordSentences implements summarize.MetricsRecorder.
func (*NoOp) RecordSentences(int, int) {}

// RecordInputLength implements summarize.MetricsRecorder.
func (*NoOp) RecordInputLength(int) {}
