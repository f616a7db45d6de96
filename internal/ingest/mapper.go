package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cotscan/cotscan/internal/models"
	"github.com/cotscan/cotscan/internal/registry"
)

// Column names of the disaggregated futures file. This list is a versioned
// contract against the external source; a header change here means the
// source format moved and the constants must be revised.
const (
	colMarketName        = "Market_and_Exchange_Names"
	colReportDate        = "Report_Date_as_YYYY-MM-DD"
	colProdMercLong      = "Prod_Merc_Positions_Long_All"
	colProdMercShort     = "Prod_Merc_Positions_Short_All"
	colSwapLong          = "Swap_Positions_Long_All"
	colSwapShort         = "Swap__Positions_Short_All" // double underscore in source
	colManagedMoneyLong  = "M_Money_Positions_Long_All"
	colManagedMoneyShort = "M_Money_Positions_Short_All"
	colOtherLong         = "Other_Rept_Positions_Long_All"
	colOtherShort        = "Other_Rept_Positions_Short_All"
)

const reportDateLayout = "2006-01-02"

// MapStats counts per-row outcomes of one mapping pass.
type MapStats struct {
	Matched   int
	Blank     int
	Unmatched int
	Failed    int
}

// Mapper turns report table text into normalized positioning records.
type Mapper struct {
	reg *registry.Registry
}

// NewMapper creates a mapper bound to an instrument registry.
func NewMapper(reg *registry.Registry) *Mapper {
	return &Mapper{reg: reg}
}

// MapRows parses the tabular text. Per-row problems (blank names, unmatched
// markets, bad dates) drop the row and bump a counter; only a table that
// cannot be tokenized at all is an error. Numeric fields that are absent or
// unparseable default to 0, since older report eras omit classifications.
func (m *Mapper) MapRows(text string) ([]models.PositioningRecord, MapStats, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, MapStats{}, fmt.Errorf("failed to read table header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colMarketName, colReportDate} {
		if _, ok := cols[required]; !ok {
			return nil, MapStats{}, fmt.Errorf("report table is missing required column %q", required)
		}
	}

	var (
		records []models.PositioningRecord
		stats   MapStats
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to tokenize report table: %w", err)
		}

		name := strings.TrimSpace(field(row, cols, colMarketName))
		if name == "" {
			stats.Blank++
			continue
		}

		inst, ok := m.reg.Match(name)
		if !ok {
			stats.Unmatched++
			continue
		}

		reportDate, err := time.Parse(reportDateLayout, strings.TrimSpace(field(row, cols, colReportDate)))
		if err != nil {
			stats.Failed++
			log.Warn().Str("market", name).Err(err).Msg("dropping row with unparseable report date")
			continue
		}

		rec := models.PositioningRecord{
			ReportDate:        reportDate,
			InstrumentCode:    inst.Code,
			InstrumentName:    name,
			CommercialLong:    count(row, cols, colProdMercLong),
			CommercialShort:   count(row, cols, colProdMercShort),
			SwapLong:          count(row, cols, colSwapLong),
			SwapShort:         count(row, cols, colSwapShort),
			ManagedMoneyLong:  count(row, cols, colManagedMoneyLong),
			ManagedMoneyShort: count(row, cols, colManagedMoneyShort),
			OtherLong:         count(row, cols, colOtherLong),
			OtherShort:        count(row, cols, colOtherShort),
		}
		rec.CommercialNet = rec.CommercialLong - rec.CommercialShort
		rec.SwapNet = rec.SwapLong - rec.SwapShort
		rec.ManagedMoneyNet = rec.ManagedMoneyLong - rec.ManagedMoneyShort
		rec.OtherNet = rec.OtherLong - rec.OtherShort
		rec.Sentiment = ingestSentiment(rec.CommercialNet)

		records = append(records, rec)
		stats.Matched++
	}

	return records, stats, nil
}

// field returns the named column of a row, or "" when the row is short.
func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// count parses a numeric column, defaulting to 0 on anything unparseable.
func count(row []string, cols map[string]int, name string) int64 {
	v := strings.TrimSpace(field(row, cols, name))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ingestSentiment is the coarse label stored on the record itself. The
// engine recomputes sentiment from percentile rank at query time.
func ingestSentiment(commercialNet int64) models.Sentiment {
	switch {
	case commercialNet > 0:
		return models.SentimentBullish
	case commercialNet < 0:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
