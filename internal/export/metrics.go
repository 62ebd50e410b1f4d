package export

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts exporter progress on a private registry, so several
// exporters (and tests) never collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	SequencesExported *prometheus.CounterVec
	SequencesFailed   *prometheus.CounterVec
	FramesWritten     *prometheus.CounterVec
	SequenceDuration  prometheus.Histogram
}

// NewMetrics registers the exporter metrics on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SequencesExported: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexkit_export_sequences_total",
				Help: "Sequences exported successfully",
			},
			[]string{"side"},
		),
		SequencesFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexkit_export_sequence_failures_total",
				Help: "Sequences skipped because a parsing stage failed",
			},
			[]string{"side", "stage"},
		),
		FramesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexkit_export_frames_total",
				Help: "Per-frame records written",
			},
			[]string{"side", "format"},
		),
		SequenceDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dexkit_export_sequence_duration_seconds",
				Help:    "Time to load and write one sequence",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
	m.Registry.MustRegister(m.SequencesExported, m.SequencesFailed, m.FramesWritten, m.SequenceDuration)
	return m
}

// WriteTextfile writes the current values in the node-exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
