package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotscan/cotscan/internal/models"
)

func TestMatch_CaseInsensitiveSubstring(t *testing.T) {
	reg := Default()

	inst, ok := reg.Match("GOLD - COMMODITY EXCHANGE INC.")
	require.True(t, ok)
	assert.Equal(t, "GOLD", inst.Code)

	inst, ok = reg.Match("Euro FX - Chicago Mercantile Exchange")
	require.True(t, ok)
	assert.Equal(t, "EURUSD", inst.Code)
}

func TestMatch_FirstHitWinsInDeclarationOrder(t *testing.T) {
	reg := New([]Instrument{
		{Code: "A", DisplayName: "CRUDE OIL", Category: models.CategoryCommodity},
		{Code: "B", DisplayName: "OIL", Category: models.CategoryCommodity},
	})

	// Both display names are contained; declaration order decides.
	inst, ok := reg.Match("CRUDE OIL, LIGHT SWEET - NYMEX")
	require.True(t, ok)
	assert.Equal(t, "A", inst.Code)
}

func TestMatch_Unmatched(t *testing.T) {
	reg := Default()

	_, ok := reg.Match("RANDOM LENGTH LUMBER - CHICAGO MERCANTILE EXCHANGE")
	assert.False(t, ok)
}

func TestNew_IgnoresDuplicateCodes(t *testing.T) {
	reg := New([]Instrument{
		{Code: "GOLD", DisplayName: "GOLD"},
		{Code: "GOLD", DisplayName: "GOLD AGAIN"},
	})

	assert.Equal(t, 1, reg.Len())
	inst, ok := reg.Lookup("GOLD")
	require.True(t, ok)
	assert.Equal(t, "GOLD", inst.DisplayName)
}

func TestDefault_UniverseShape(t *testing.T) {
	reg := Default()
	require.NotZero(t, reg.Len())

	seen := map[string]bool{}
	for _, inst := range reg.Instruments() {
		assert.False(t, seen[inst.Code], "duplicate code %s", inst.Code)
		seen[inst.Code] = true
		assert.NotEmpty(t, inst.DisplayName)
		assert.NotEmpty(t, inst.SourceID)
		assert.Contains(t, []models.Category{
			models.CategoryCurrency,
			models.CategoryCommodity,
			models.CategoryGrain,
			models.CategoryIndex,
		}, inst.Category)
	}
}
