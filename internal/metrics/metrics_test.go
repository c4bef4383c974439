package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Pair(OutcomeScored)
	m.Pair(OutcomeScored)
	m.Pair(OutcomeLookup)
	m.File(FileScored, 20*time.Millisecond)
	m.File(FileSkipped, 0)
	m.RunFinished(time.Unix(1500000000, 0), 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pairs.WithLabelValues(OutcomeScored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pairs.WithLabelValues(OutcomeLookup)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.files.WithLabelValues(FileSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fileDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 1500000000.0, testutil.ToFloat64(m.lastRun))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.lastRunScore))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Pair(OutcomeScored)
		m.File(FileFailed, time.Second)
		m.RunFinished(time.Now(), 1)
	})
}
