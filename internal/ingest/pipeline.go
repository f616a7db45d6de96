package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cotscan/cotscan/internal/metrics"
	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/store"
)

// DefaultWorkers bounds concurrent upserts within one mapped batch.
const DefaultWorkers = 4

// Pipeline runs the ordered acquisition -> extraction -> mapping -> storage
// steps for one report year. The first three steps are strictly sequential;
// upserts fan out across a bounded worker pool since every record targets a
// distinct (date, instrument) key.
type Pipeline struct {
	fetcher ArchiveFetcher
	mapper  *Mapper
	store   store.Store
	metrics *metrics.Metrics
	workers int
}

// NewPipeline wires the ingestion steps together.
func NewPipeline(fetcher ArchiveFetcher, mapper *Mapper, st store.Store, m *metrics.Metrics, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Pipeline{fetcher: fetcher, mapper: mapper, store: st, metrics: m, workers: workers}
}

// Ingest processes one report year. Structural failures (acquisition,
// extraction, untokenizable table) abort and surface typed errors; row
// failures only bump counters in the report.
func (p *Pipeline) Ingest(ctx context.Context, year int) (models.IngestionReport, error) {
	report := models.IngestionReport{RunID: uuid.NewString(), Year: year}
	start := time.Now()
	logger := log.With().Str("run_id", report.RunID).Int("year", year).Logger()

	fetchStart := time.Now()
	archive, err := p.fetcher.Fetch(ctx, year)
	if err != nil {
		p.metrics.IngestRuns.WithLabelValues("acquisition_failed").Inc()
		return report, err
	}
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	text, err := Extract(archive)
	if err != nil {
		p.metrics.IngestRuns.WithLabelValues("extraction_failed").Inc()
		return report, err
	}

	records, stats, err := p.mapper.MapRows(text)
	if err != nil {
		p.metrics.IngestRuns.WithLabelValues("mapping_failed").Inc()
		return report, err
	}
	report.RowsMatched = stats.Matched
	report.RowsBlank = stats.Blank
	report.RowsUnmatched = stats.Unmatched
	report.RowsFailed = stats.Failed
	p.metrics.RowsSkipped.WithLabelValues(metrics.ReasonBlank).Add(float64(stats.Blank))
	p.metrics.RowsSkipped.WithLabelValues(metrics.ReasonUnmatched).Add(float64(stats.Unmatched))
	p.metrics.RowsSkipped.WithLabelValues(metrics.ReasonFailed).Add(float64(stats.Failed))

	written, err := p.storeRecords(ctx, records)
	report.RecordsWritten = written
	report.Elapsed = time.Since(start)
	if err != nil {
		p.metrics.IngestRuns.WithLabelValues("storage_failed").Inc()
		return report, err
	}

	p.metrics.RecordsWritten.Add(float64(written))
	p.metrics.IngestRuns.WithLabelValues("ok").Inc()
	logger.Info().
		Int("records_written", report.RecordsWritten).
		Int("rows_unmatched", report.RowsUnmatched).
		Int("rows_blank", report.RowsBlank).
		Int("rows_failed", report.RowsFailed).
		Dur("elapsed", report.Elapsed).
		Msg("ingestion run complete")
	return report, nil
}

// IngestYears backfills count years ending at endYear, newest first. A
// structural failure in any year aborts the backfill.
func (p *Pipeline) IngestYears(ctx context.Context, endYear, count int) (models.IngestionReport, error) {
	if count < 1 {
		count = 1
	}

	total := models.IngestionReport{RunID: uuid.NewString(), Year: endYear}
	for year := endYear; year > endYear-count; year-- {
		rep, err := p.Ingest(ctx, year)
		total.Merge(rep)
		if err != nil {
			return total, fmt.Errorf("backfill aborted at %d: %w", year, err)
		}
	}
	return total, nil
}

// storeRecords upserts a mapped batch through the worker pool and returns
// the number written. The first upsert error wins; remaining workers drain.
func (p *Pipeline) storeRecords(ctx context.Context, records []models.PositioningRecord) (int, error) {
	sem := make(chan struct{}, p.workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		written  int
		firstErr error
	)

	for _, rec := range records {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return written, ctx.Err()
		}

		wg.Add(1)
		go func(rec models.PositioningRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			err := p.store.Upsert(ctx, rec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to store record %s/%s: %w",
						rec.InstrumentCode, rec.ReportDate.Format(reportDateLayout), err)
				}
				return
			}
			written++
		}(rec)
	}

	wg.Wait()
	return written, firstErr
}
