package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cotscan/cotscan/internal/ingest"
	"github.com/cotscan/cotscan/internal/metrics"
	"github.com/cotscan/cotscan/internal/registry"
)

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetInt("year")
	years, _ := cmd.Flags().GetInt("years")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pipeline := ingest.NewPipeline(
		ingest.NewFetcher(cfg.Source.BaseURL),
		ingest.NewMapper(registry.Default()),
		st,
		metrics.New(prometheus.DefaultRegisterer),
		cfg.Ingest.Workers,
	)

	report, err := pipeline.IngestYears(ctx, year, years)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(report)
	}

	log.Info().
		Str("run_id", report.RunID).
		Int("records_written", report.RecordsWritten).
		Int("rows_skipped", report.RowsSkipped()).
		Msg("ingestion finished")
	fmt.Printf("ingested year(s) ending %d: %d records written, %d rows skipped (%d unmatched, %d blank, %d failed)\n",
		year, report.RecordsWritten, report.RowsSkipped(),
		report.RowsUnmatched, report.RowsBlank, report.RowsFailed)
	return nil
}
