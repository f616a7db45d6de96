package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "cotscan"
	version = "v1.0.0"
)

func main() {
	// .env is optional; real config comes from yaml + COTSCAN_* vars.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Weekly trader-positioning ingestion and percentile signals",
		Version: version,
		Long: `cotscan ingests the weekly disaggregated Commitment-of-Traders report,
stores per-instrument positioning series and derives buy/sell/hold signals
from each instrument's percentile rank against its own history.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			levelStr, _ := cmd.Flags().GetString("log-level")
			if level, err := zerolog.ParseLevel(levelStr); err == nil {
				zerolog.SetGlobalLevel(level)
			}
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to yaml config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Download and store a yearly positioning report",
		Long:  "Runs the acquisition -> extraction -> mapping -> storage pipeline for one or more report years",
		RunE:  runIngest,
	}
	ingestCmd.Flags().Int("year", time.Now().Year(), "Report year to ingest")
	ingestCmd.Flags().Int("years", 1, "Number of years to backfill, ending at --year")
	ingestCmd.Flags().Bool("json", false, "Print the ingestion report as JSON")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the percentile signal for one instrument",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().String("instrument", "", "Instrument code (e.g. GOLD, EURUSD)")
	analyzeCmd.Flags().Int("lookback", 0, "Lookback window in weeks (default from config)")
	analyzeCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = analyzeCmd.MarkFlagRequired("instrument")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate the latest signals across the whole universe",
		RunE:  runSummary,
	}
	summaryCmd.Flags().Int("window", 0, "Trailing window in days (default from config)")
	summaryCmd.Flags().Bool("json", false, "Print the summary as JSON")

	instrumentsCmd := &cobra.Command{
		Use:   "instruments",
		Short: "List the tracked instrument universe",
		RunE:  runInstruments,
	}

	rootCmd.AddCommand(ingestCmd, analyzeCmd, summaryCmd, instrumentsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
