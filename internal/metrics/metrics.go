// Package metrics holds the Prometheus collectors for scoring runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pair outcomes.
const (
	OutcomeScored    = "scored"
	OutcomeUndefined = "undefined"
	OutcomeLookup    = "lookup_error"
)

// File statuses.
const (
	FileScored  = "scored"
	FileFailed  = "failed"
	FileSkipped = "skipped"
)

// Metrics is safe to use as a nil pointer, which records nothing.
type Metrics struct {
	pairs        *prometheus.CounterVec
	files        *prometheus.CounterVec
	fileDuration prometheus.Histogram
	runs         prometheus.Counter
	lastRun      prometheus.Gauge
	lastRunScore prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "episcore_pairs_total",
			Help: "Region/target pairs evaluated, by outcome.",
		}, []string{"outcome"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "episcore_files_total",
			Help: "Forecast files processed, by status.",
		}, []string{"status"}),
		fileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "episcore_file_duration_seconds",
			Help:    "Time spent reading and scoring one forecast file.",
			Buckets: prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "episcore_runs_total",
			Help: "Completed scoring runs.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "episcore_last_run_timestamp_seconds",
			Help: "Unix time the last scoring run finished.",
		}),
		lastRunScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "episcore_last_run_scores",
			Help: "Score records produced by the last run.",
		}),
	}

	reg.MustRegister(m.pairs, m.files, m.fileDuration, m.runs, m.lastRun, m.lastRunScore)
	return m
}

func (m *Metrics) Pair(outcome string) {
	if m == nil {
		return
	}
	m.pairs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) File(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(status).Inc()
	if status != FileSkipped {
		m.fileDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RunFinished(at time.Time, scores int) {
	if m == nil {
		return
	}
	m.runs.Inc()
	m.lastRun.Set(float64(at.Unix()))
	m.lastRunScore.Set(float64(scores))
}
