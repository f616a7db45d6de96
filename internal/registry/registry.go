// Package registry holds the fixed instrument universe and the matching
// rules that bind free-text report names to instrument codes.
package registry

import (
	"strings"

	"github.com/cotscan/cotscan/internal/models"
)

// Instrument maps an internal code to its source-report identity.
type Instrument struct {
	Code        string
	SourceID    string
	DisplayName string
	Category    models.Category
}

// Registry is an immutable, ordered instrument table. Matching iterates
// instruments in declaration order and the first hit wins, which keeps
// substring matching deterministic when a report name could contain more
// than one display name.
type Registry struct {
	instruments []Instrument
	byCode      map[string]Instrument
}

// New builds a registry from an ordered instrument list. Later duplicates
// of a code are ignored.
func New(instruments []Instrument) *Registry {
	r := &Registry{
		instruments: make([]Instrument, 0, len(instruments)),
		byCode:      make(map[string]Instrument, len(instruments)),
	}
	for _, inst := range instruments {
		if _, dup := r.byCode[inst.Code]; dup {
			continue
		}
		r.instruments = append(r.instruments, inst)
		r.byCode[inst.Code] = inst
	}
	return r
}

// Default returns the standard tracked universe. The order below is the
// match order and is part of the mapper's contract.
func Default() *Registry {
	return New([]Instrument{
		{Code: "EURUSD", SourceID: "099741", DisplayName: "EURO FX", Category: models.CategoryCurrency},
		{Code: "GBPUSD", SourceID: "096742", DisplayName: "BRITISH POUND", Category: models.CategoryCurrency},
		{Code: "USDJPY", SourceID: "097741", DisplayName: "JAPANESE YEN", Category: models.CategoryCurrency},
		{Code: "USDCHF", SourceID: "092741", DisplayName: "SWISS FRANC", Category: models.CategoryCurrency},
		{Code: "USDCAD", SourceID: "090741", DisplayName: "CANADIAN DOLLAR", Category: models.CategoryCurrency},
		{Code: "AUDUSD", SourceID: "232741", DisplayName: "AUSTRALIAN DOLLAR", Category: models.CategoryCurrency},
		{Code: "NZDUSD", SourceID: "112741", DisplayName: "NZ DOLLAR", Category: models.CategoryCurrency},
		{Code: "GOLD", SourceID: "088691", DisplayName: "GOLD", Category: models.CategoryCommodity},
		{Code: "SILVER", SourceID: "084691", DisplayName: "SILVER", Category: models.CategoryCommodity},
		{Code: "COPPER", SourceID: "085692", DisplayName: "COPPER", Category: models.CategoryCommodity},
		{Code: "WTICRUDE", SourceID: "067651", DisplayName: "CRUDE OIL", Category: models.CategoryCommodity},
		{Code: "NATGAS", SourceID: "023651", DisplayName: "NATURAL GAS", Category: models.CategoryCommodity},
		{Code: "CORN", SourceID: "002602", DisplayName: "CORN", Category: models.CategoryGrain},
		{Code: "SOYBEANS", SourceID: "005602", DisplayName: "SOYBEANS", Category: models.CategoryGrain},
		{Code: "WHEAT", SourceID: "001602", DisplayName: "WHEAT", Category: models.CategoryGrain},
		{Code: "SPX", SourceID: "13874A", DisplayName: "E-MINI S&P 500", Category: models.CategoryIndex},
		{Code: "NDX", SourceID: "209742", DisplayName: "NASDAQ-100", Category: models.CategoryIndex},
		{Code: "DJI", SourceID: "124603", DisplayName: "DJIA", Category: models.CategoryIndex},
	})
}

// Instruments returns the universe in match order. The slice is a copy.
func (r *Registry) Instruments() []Instrument {
	out := make([]Instrument, len(r.instruments))
	copy(out, r.instruments)
	return out
}

// Lookup returns the instrument for a code.
func (r *Registry) Lookup(code string) (Instrument, bool) {
	inst, ok := r.byCode[code]
	return inst, ok
}

// Len reports the universe size.
func (r *Registry) Len() int {
	return len(r.instruments)
}

// Match resolves a free-text market/exchange name against the universe
// using case-insensitive substring containment of each display name.
// First match in declaration order wins.
func (r *Registry) Match(marketName string) (Instrument, bool) {
	upper := strings.ToUpper(marketName)
	for _, inst := range r.instruments {
		if strings.Contains(upper, strings.ToUpper(inst.DisplayName)) {
			return inst, true
		}
	}
	return Instrument{}, false
}
