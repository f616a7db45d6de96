// Package metrics exposes prometheus instrumentation for ingestion runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the ingestion pipeline reports into.
type Metrics struct {
	RecordsWritten prometheus.Counter
	RowsSkipped    *prometheus.CounterVec
	IngestRuns     *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
}

// Skip reasons used as the rows-skipped label.
const (
	ReasonBlank     = "blank"
	ReasonUnmatched = "unmatched"
	ReasonFailed    = "parse_failed"
)

// New creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a private registry in
// tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cotscan_records_written_total",
				Help: "Total positioning records upserted into the store",
			},
		),
		RowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cotscan_rows_skipped_total",
				Help: "Total report rows dropped during mapping, by reason",
			},
			[]string{"reason"},
		),
		IngestRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cotscan_ingest_runs_total",
				Help: "Total ingestion runs by outcome",
			},
			[]string{"status"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cotscan_fetch_duration_seconds",
				Help:    "Time spent downloading the yearly report archive",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
	}

	reg.MustRegister(m.RecordsWritten, m.RowsSkipped, m.IngestRuns, m.FetchDuration)
	return m
}

// Nop returns metrics backed by an unregistered private registry, for
// callers that do not report.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
