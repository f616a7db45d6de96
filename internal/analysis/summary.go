package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/registry"
)

// DefaultWindowDays is the trailing window for the cross-market summary.
const DefaultWindowDays = 14

// topMoverCount caps each top-mover list.
const topMoverCount = 5

// Summarizer fans the signal engine out over the instrument universe and
// aggregates the results. Sentiment is always recomputed live through the
// engine rather than read from the label stored at ingest time, so the
// summary can never disagree with Analyze.
type Summarizer struct {
	engine *Engine
	reg    *registry.Registry
	now    func() time.Time
}

// NewSummarizer creates a summary aggregator over an engine and registry.
func NewSummarizer(engine *Engine, reg *registry.Registry) *Summarizer {
	return &Summarizer{engine: engine, reg: reg, now: time.Now}
}

// Summarize tallies the latest per-instrument signal within windowDays of
// now and collects the top movers by absolute weekly change. Instruments
// with no stored records, or whose latest record falls outside the window,
// are excluded from every count.
func (s *Summarizer) Summarize(ctx context.Context, windowDays int) (*models.MarketSummary, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -windowDays)
	summary := &models.MarketSummary{
		TopMoversBullish: []models.Mover{},
		TopMoversBearish: []models.Mover{},
		LastUpdated:      now,
	}

	var movers []moverCandidate
	for _, inst := range s.reg.Instruments() {
		res, err := s.engine.Analyze(ctx, inst.Code, DefaultLookbackWeeks)
		if err != nil {
			return nil, err
		}
		if res == nil || res.ReportDate.Before(cutoff) {
			continue
		}

		summary.TotalInstruments++
		switch res.Sentiment {
		case models.SentimentBullish:
			summary.BullishSignals++
		case models.SentimentBearish:
			summary.BearishSignals++
		default:
			summary.NeutralSignals++
		}

		movers = append(movers, moverCandidate{
			code:      res.InstrumentCode,
			name:      res.InstrumentName,
			change:    res.WeeklyChange,
			sentiment: res.Sentiment,
		})
	}

	// Descending absolute change; ties break on code to stay deterministic.
	sort.Slice(movers, func(i, j int) bool {
		ai, aj := abs64(movers[i].change), abs64(movers[j].change)
		if ai != aj {
			return ai > aj
		}
		return movers[i].code < movers[j].code
	})

	for _, m := range movers {
		switch {
		case m.change > 0 && len(summary.TopMoversBullish) < topMoverCount:
			summary.TopMoversBullish = append(summary.TopMoversBullish, models.Mover{
				InstrumentCode: m.code,
				InstrumentName: m.name,
				Change:         m.change,
				Sentiment:      m.sentiment,
			})
		case m.change < 0 && len(summary.TopMoversBearish) < topMoverCount:
			summary.TopMoversBearish = append(summary.TopMoversBearish, models.Mover{
				InstrumentCode: m.code,
				InstrumentName: m.name,
				Change:         -m.change, // reported as magnitude
				Sentiment:      m.sentiment,
			})
		}
	}

	return summary, nil
}

type moverCandidate struct {
	code      string
	name      string
	change    int64
	sentiment models.Sentiment
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
