// Package models defines the domain records shared across ingestion,
// storage and analysis.
package models

import "time"

// Category classifies an instrument in the fixed universe.
type Category string

const (
	CategoryCurrency  Category = "currency"
	CategoryCommodity Category = "commodity"
	CategoryGrain     Category = "grain"
	CategoryIndex     Category = "index"
)

// Sentiment is a positioning read derived from percentile rank.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Signal is the discrete trading recommendation.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// PositioningRecord is one weekly disaggregated positioning row for one
// instrument. Uniquely keyed by (ReportDate, InstrumentCode); re-ingestion
// replaces the record for that key.
type PositioningRecord struct {
	ReportDate     time.Time `db:"report_date" json:"report_date"`
	InstrumentCode string    `db:"instrument_code" json:"instrument_code"`
	InstrumentName string    `db:"instrument_name" json:"instrument_name"`

	// Producer/merchant (commercial hedgers)
	CommercialLong  int64 `db:"commercial_long" json:"commercial_long"`
	CommercialShort int64 `db:"commercial_short" json:"commercial_short"`
	CommercialNet   int64 `db:"commercial_net" json:"commercial_net"`

	// Swap dealers
	SwapLong  int64 `db:"swap_long" json:"swap_long"`
	SwapShort int64 `db:"swap_short" json:"swap_short"`
	SwapNet   int64 `db:"swap_net" json:"swap_net"`

	// Managed money (speculators)
	ManagedMoneyLong  int64 `db:"managed_money_long" json:"managed_money_long"`
	ManagedMoneyShort int64 `db:"managed_money_short" json:"managed_money_short"`
	ManagedMoneyNet   int64 `db:"managed_money_net" json:"managed_money_net"`

	// Other reportables
	OtherLong  int64 `db:"other_long" json:"other_long"`
	OtherShort int64 `db:"other_short" json:"other_short"`
	OtherNet   int64 `db:"other_net" json:"other_net"`

	// Coarse label assigned at ingest time from the commercial net sign.
	// The summary aggregator recomputes sentiment live; this field is for
	// callers reading raw records.
	Sentiment Sentiment `db:"sentiment" json:"sentiment,omitempty"`
}

// NetPositioning holds the latest net figures per trader classification.
type NetPositioning struct {
	Commercial      int64 `json:"commercial"`
	SwapDealers     int64 `json:"swap_dealers"`
	ManagedMoney    int64 `json:"managed_money"`
	OtherReportable int64 `json:"other_reportable"`
}

// AnalysisResult is the derived view for one instrument, computed fresh
// from the store on every request and never persisted.
type AnalysisResult struct {
	InstrumentCode       string         `json:"instrument_code"`
	InstrumentName       string         `json:"instrument_name"`
	ReportDate           time.Time      `json:"report_date"`
	Current              NetPositioning `json:"current_positioning"`
	HistoricalPercentile float64        `json:"historical_percentile"`
	WeeklyChange         int64          `json:"weekly_change"`
	HistoryWeeks         int            `json:"history_weeks"`
	Sentiment            Sentiment      `json:"sentiment"`
	Signal               Signal         `json:"signal"`
	Confidence           float64        `json:"confidence"`
	Analysis             string         `json:"analysis"`
}

// Mover is one entry in the summary's top-mover lists. Change is the
// absolute magnitude of the weekly commercial net change.
type Mover struct {
	InstrumentCode string    `json:"instrument_code"`
	InstrumentName string    `json:"instrument_name"`
	Change         int64     `json:"change"`
	Sentiment      Sentiment `json:"sentiment"`
}

// MarketSummary aggregates the latest per-instrument signals inside a
// trailing window.
type MarketSummary struct {
	TotalInstruments int       `json:"total_instruments"`
	BullishSignals   int       `json:"bullish_signals"`
	BearishSignals   int       `json:"bearish_signals"`
	NeutralSignals   int       `json:"neutral_signals"`
	TopMoversBullish []Mover   `json:"top_movers_bullish"`
	TopMoversBearish []Mover   `json:"top_movers_bearish"`
	LastUpdated      time.Time `json:"last_updated"`
}

// IngestionReport summarizes one ingestion run.
type IngestionReport struct {
	RunID          string        `json:"run_id"`
	Year           int           `json:"year"`
	RecordsWritten int           `json:"records_written"`
	RowsMatched    int           `json:"rows_matched"`
	RowsBlank      int           `json:"rows_blank"`
	RowsUnmatched  int           `json:"rows_unmatched"`
	RowsFailed     int           `json:"rows_failed"`
	Elapsed        time.Duration `json:"elapsed"`
}

// RowsSkipped is the total of rows dropped for any reason.
func (r IngestionReport) RowsSkipped() int {
	return r.RowsBlank + r.RowsUnmatched + r.RowsFailed
}

// Merge folds another run's counters into this report (multi-year backfill).
func (r *IngestionReport) Merge(other IngestionReport) {
	r.RecordsWritten += other.RecordsWritten
	r.RowsMatched += other.RowsMatched
	r.RowsBlank += other.RowsBlank
	r.RowsUnmatched += other.RowsUnmatched
	r.RowsFailed += other.RowsFailed
	r.Elapsed += other.Elapsed
}
