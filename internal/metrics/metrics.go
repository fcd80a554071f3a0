// Package metrics holds the Prometheus collectors exported by fastx-tools.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects every fastx-tools metric. It is separate from the
// default registry so a textfile dump only contains our own series.
var Registry = prometheus.NewRegistry()

var (
	DedupRecordsRead = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "fastx_dedup_records_read_total",
		Help: "The total number of records read by the dedup filter",
	})
	DedupRecordsWritten = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "fastx_dedup_records_written_total",
		Help: "The total number of first-occurrence records written",
	})
	DedupRecordsRemoved = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "fastx_dedup_records_removed_total",
		Help: "The total number of duplicate records dropped",
	})
	DedupIndexEntries = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: "fastx_dedup_index_entries",
		Help: "Number of distinct fingerprints held by the index",
	})
	DedupRunDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "fastx_dedup_run_duration_seconds",
		Help:    "Wall time of dedup runs",
		Buckets: []float64{.01, .1, 1.0, 10.0, 60.0, 600.0, 3600.0},
	})
	DedupPhaseSeconds = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fastx_dedup_phase_seconds_total",
		Help: "Time spent per dedup phase when profiling is enabled",
	}, []string{"phase"})
)

// WriteTextfile dumps the registry in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
