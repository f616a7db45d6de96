package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cotscan/cotscan/internal/analysis"
	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/registry"
)

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	window, _ := cmd.Flags().GetInt("window")
	if window <= 0 {
		window = cfg.Analysis.SummaryWindowDays
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := registry.Default()
	summarizer := analysis.NewSummarizer(analysis.NewEngine(st, reg), reg)
	summary, err := summarizer.Summarize(ctx, window)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(summary)
	}

	fmt.Printf("market summary (%dd window, %d instruments)\n", window, summary.TotalInstruments)
	fmt.Printf("  bullish %d / bearish %d / neutral %d\n",
		summary.BullishSignals, summary.BearishSignals, summary.NeutralSignals)
	printMovers("top bullish movers", summary.TopMoversBullish)
	printMovers("top bearish movers", summary.TopMoversBearish)
	return nil
}

func printMovers(title string, movers []models.Mover) {
	if len(movers) == 0 {
		return
	}
	fmt.Printf("  %s:\n", title)
	for _, m := range movers {
		fmt.Printf("    %-10s %8d  (%s)\n", m.InstrumentCode, m.Change, m.Sentiment)
	}
}

func runInstruments(cmd *cobra.Command, args []string) error {
	for _, inst := range registry.Default().Instruments() {
		fmt.Printf("%-10s %-10s %-25s %s\n", inst.Code, inst.Category, inst.DisplayName, inst.SourceID)
	}
	return nil
}
