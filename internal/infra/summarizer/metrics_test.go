package summarizer

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-summarizer/internal/domain/summary"
	"text-summarizer/internal/usecase/summarize"
)

var (
	_ summarize.MetricsRecorder = (*PrometheusSummaryMetrics)(nil)
	_ summarize.MetricsRecorder = (*NoOp)(nil)
)

func histogramCount(t *testing.T, h interface{ Write(*dto.Metric) error }) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestNewPrometheusSummaryMetrics_Singleton(t *testing.T) {
	m1 := NewPrometheusSummaryMetrics()
	m2 := NewPrometheusSummaryMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2)
}

func TestPrometheusSummaryMetrics_RecordRequest(t *testing.T) {
	m := NewPrometheusSummaryMetrics()
	counter := m.requests.WithLabelValues("truncation", "invalid")
	before := testutil.ToFloat64(counter)

	m.RecordRequest(summary.ModeTruncation, "invalid")
	m.RecordRequest(summary.ModeTruncation, "invalid")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestPrometheusSummaryMetrics_Histograms(t *testing.T) {
	m := NewPrometheusSummaryMetrics()

	durationBefore := histogramCount(t, m.duration.WithLabelValues("frequency").(prometheus.Histogram))
	inputBefore := histogramCount(t, m.inputSentences)
	selectedBefore := histogramCount(t, m.selectedSentences)
	lengthBefore := histogramCount(t, m.inputLength)

	m.RecordDuration(summary.ModeFrequency, 3*time.Millisecond)
	m.RecordSentences(12, 3)
	m.RecordInputLength(640)

	assert.Equal(t, durationBefore+1, histogramCount(t, m.duration.WithLabelValues("frequency").(prometheus.Histogram)))
	assert.Equal(t, inputBefore+1, histogramCount(t, m.inputSentences))
	assert.Equal(t, selectedBefore+1, histogramCount(t, m.selectedSentences))
	assert.Equal(t, lengthBefore+1, histogramCount(t, m.inputLength))
}

func TestNoOp(t *testing.T) {
	n := NewNoOp()
	assert.NotPanics(t, func() {
		n.RecordRequest(summary.ModeFrequency, "success")
		n.RecordDuration(summary.ModeFrequency, time.Second)
		n.RecordSentences(1, 1)
		n.RecordInputLength(10)
	})
}
