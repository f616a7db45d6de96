// Package analysis derives trading signals from stored positioning history.
package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/registry"
	"github.com/cotscan/cotscan/internal/store"
)

// DefaultLookbackWeeks is the trailing history used for percentile ranking.
const DefaultLookbackWeeks = 52

// Fixed signal thresholds. These are a versioned contract, not runtime
// configuration.
const (
	bullishPercentile = 75.0
	bearishPercentile = 25.0
	maxConfidence     = 90.0
	baseConfidence    = 60.0
)

// Engine computes percentile-rank signals for single instruments. Read-only
// against the store; safe for concurrent use.
type Engine struct {
	store store.Store
	reg   *registry.Registry
}

// NewEngine creates a signal engine over a store and instrument registry.
func NewEngine(st store.Store, reg *registry.Registry) *Engine {
	return &Engine{store: st, reg: reg}
}

// Analyze ranks an instrument's current commercial net position against up
// to lookbackWeeks of its own history. Returns (nil, nil) when the
// instrument has no stored records: insufficient data is a valid empty
// result, not an error.
func (e *Engine) Analyze(ctx context.Context, instrumentCode string, lookbackWeeks int) (*models.AnalysisResult, error) {
	if lookbackWeeks <= 0 {
		lookbackWeeks = DefaultLookbackWeeks
	}

	recs, err := e.store.Latest(ctx, instrumentCode, lookbackWeeks)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", instrumentCode, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	latest := recs[0]
	historical := recs[1:]
	current := latest.CommercialNet

	// Percentile is the share of historical records strictly below the
	// current net. An instrument with no history ranks at 0 by definition;
	// the max(1, n) denominator keeps the division safe.
	below := 0
	for _, r := range historical {
		if r.CommercialNet < current {
			below++
		}
	}
	denom := len(historical)
	if denom < 1 {
		denom = 1
	}
	percentile := float64(below) / float64(denom) * 100

	var weeklyChange int64
	if len(recs) >= 2 {
		weeklyChange = current - recs[1].CommercialNet
	}

	sentiment, signal, confidence := classify(percentile, len(historical))

	name := latest.InstrumentName
	if inst, ok := e.reg.Lookup(instrumentCode); ok {
		name = inst.DisplayName
	}

	return &models.AnalysisResult{
		InstrumentCode: instrumentCode,
		InstrumentName: name,
		ReportDate:     latest.ReportDate,
		Current: models.NetPositioning{
			Commercial:      latest.CommercialNet,
			SwapDealers:     latest.SwapNet,
			ManagedMoney:    latest.ManagedMoneyNet,
			OtherReportable: latest.OtherNet,
		},
		HistoricalPercentile: percentile,
		WeeklyChange:         weeklyChange,
		HistoryWeeks:         len(recs),
		Sentiment:            sentiment,
		Signal:               signal,
		Confidence:           confidence,
		Analysis:             buildNarrative(name, current, percentile, weeklyChange, sentiment),
	}, nil
}

// classify applies the fixed thresholds. A record with no history at all is
// forced onto the neutral branch: its percentile of 0 says nothing about
// extremes, so it must not read as bearish.
func classify(percentile float64, historyLen int) (models.Sentiment, models.Signal, float64) {
	if historyLen == 0 {
		return models.SentimentNeutral, models.SignalHold, 0
	}

	switch {
	case percentile > bullishPercentile:
		conf := math.Min(maxConfidence, baseConfidence+(percentile-bullishPercentile))
		return models.SentimentBullish, models.SignalBuy, conf
	case percentile < bearishPercentile:
		conf := math.Min(maxConfidence, baseConfidence+(bearishPercentile-percentile))
		return models.SentimentBearish, models.SignalSell, conf
	default:
		return models.SentimentNeutral, models.SignalHold, 50 - math.Abs(percentile-50)
	}
}
