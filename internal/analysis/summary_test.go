package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/registry"
	"github.com/cotscan/cotscan/internal/store"
)

func TestSummarize_TalliesAndMovers(t *testing.T) {
	st := store.NewMemoryStore()
	reg := registry.Default()
	eng := NewEngine(st, reg)

	end := day(2024, 6, 4)

	// GOLD: current above all history -> bullish, change +6.
	seedWeekly(t, st, "GOLD", end, []int64{1, 2, 3, 4, 10})
	// SILVER: current below all history -> bearish, change -14.
	seedWeekly(t, st, "SILVER", end, []int64{1, 2, 3, 4, -10})
	// EURUSD: mid-range -> neutral, change +1.
	seedWeekly(t, st, "EURUSD", end, []int64{0, 10, 4, 5})
	// CORN: only record is older than the window -> excluded.
	seedWeekly(t, st, "CORN", end.AddDate(0, 0, -30), []int64{7})

	s := NewSummarizer(eng, reg)
	s.now = func() time.Time { return end.AddDate(0, 0, 3) }

	summary, err := s.Summarize(context.Background(), 14)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalInstruments)
	assert.Equal(t, 1, summary.BullishSignals)
	assert.Equal(t, 1, summary.BearishSignals)
	assert.Equal(t, 1, summary.NeutralSignals)

	require.Len(t, summary.TopMoversBullish, 2)
	assert.Equal(t, "GOLD", summary.TopMoversBullish[0].InstrumentCode)
	assert.Equal(t, int64(6), summary.TopMoversBullish[0].Change)
	assert.Equal(t, "EURUSD", summary.TopMoversBullish[1].InstrumentCode)

	require.Len(t, summary.TopMoversBearish, 1)
	assert.Equal(t, "SILVER", summary.TopMoversBearish[0].InstrumentCode)
	// Bearish change is reported as magnitude.
	assert.Equal(t, int64(14), summary.TopMoversBearish[0].Change)
	assert.Equal(t, models.SentimentBearish, summary.TopMoversBearish[0].Sentiment)

	assert.Equal(t, end.AddDate(0, 0, 3), summary.LastUpdated)
}

func TestSummarize_EmptyStore(t *testing.T) {
	reg := registry.Default()
	s := NewSummarizer(NewEngine(store.NewMemoryStore(), reg), reg)

	summary, err := s.Summarize(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalInstruments)
	assert.Empty(t, summary.TopMoversBullish)
	assert.Empty(t, summary.TopMoversBearish)
}

func TestSummarize_TopMoverTruncation(t *testing.T) {
	st := store.NewMemoryStore()

	// Seven instruments, all with positive weekly change of distinct size.
	insts := make([]registry.Instrument, 0, 7)
	codes := []string{"A", "B", "C", "D", "E", "F", "G"}
	end := day(2024, 6, 4)
	for i, code := range codes {
		insts = append(insts, registry.Instrument{
			Code: code, SourceID: code, DisplayName: code,
			Category: models.CategoryCommodity,
		})
		change := int64((i + 1) * 100)
		seedWeekly(t, st, code, end, []int64{0, 0, 0, change})
	}
	reg := registry.New(insts)

	s := NewSummarizer(NewEngine(st, reg), reg)
	s.now = func() time.Time { return end }

	summary, err := s.Summarize(context.Background(), 14)
	require.NoError(t, err)

	require.Len(t, summary.TopMoversBullish, 5)
	assert.Equal(t, "G", summary.TopMoversBullish[0].InstrumentCode)
	assert.Equal(t, int64(700), summary.TopMoversBullish[0].Change)
	assert.Equal(t, "C", summary.TopMoversBullish[4].InstrumentCode)
	assert.Empty(t, summary.TopMoversBearish)
}
