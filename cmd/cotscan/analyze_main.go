package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cotscan/cotscan/internal/analysis"
	"github.com/cotscan/cotscan/internal/registry"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	code, _ := cmd.Flags().GetString("instrument")
	code = strings.ToUpper(strings.TrimSpace(code))
	lookback, _ := cmd.Flags().GetInt("lookback")
	if lookback <= 0 {
		lookback = cfg.Analysis.LookbackWeeks
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	reg := registry.Default()
	if _, ok := reg.Lookup(code); !ok {
		return fmt.Errorf("unknown instrument %q (see `cotscan instruments`)", code)
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := analysis.NewEngine(st, reg)
	result, err := engine.Analyze(ctx, code, lookback)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Printf("%s: no stored positioning data\n", code)
		return nil
	}

	if asJSON {
		return printJSON(result)
	}

	first, err := st.First(ctx, code)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) as of %s\n", result.InstrumentCode, result.InstrumentName,
		result.ReportDate.Format("2006-01-02"))
	fmt.Printf("  commercial net:  %d (weekly change %+d)\n",
		result.Current.Commercial, result.WeeklyChange)
	fmt.Printf("  percentile:      %.1f over %d week(s)\n",
		result.HistoricalPercentile, result.HistoryWeeks)
	if first != nil {
		fmt.Printf("  history since:   %s\n", first.ReportDate.Format("2006-01-02"))
	}
	fmt.Printf("  signal:          %s (%s, confidence %.0f)\n",
		result.Signal, result.Sentiment, result.Confidence)
	fmt.Printf("  %s\n", result.Analysis)
	return nil
}
