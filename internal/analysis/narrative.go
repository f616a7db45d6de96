package analysis

import (
	"fmt"
	"strings"

	"github.com/cotscan/cotscan/internal/models"
)

// buildNarrative renders the fixed-template analysis text. Pure function of
// its inputs so threshold behavior can be asserted on exact strings.
func buildNarrative(name string, commercialNet int64, percentile float64, weeklyChange int64, sentiment models.Sentiment) string {
	var b strings.Builder

	switch {
	case commercialNet > 0:
		fmt.Fprintf(&b, "Commercial traders are net long %d contracts in %s. ", commercialNet, name)
	case commercialNet < 0:
		fmt.Fprintf(&b, "Commercial traders are net short %d contracts in %s. ", -commercialNet, name)
	default:
		fmt.Fprintf(&b, "Commercial traders are flat in %s. ", name)
	}

	fmt.Fprintf(&b, "The position ranks at the %.0fth percentile of its trailing history. ", percentile)

	switch {
	case weeklyChange > 0:
		fmt.Fprintf(&b, "Net positioning increased by %d contracts over the past week. ", weeklyChange)
	case weeklyChange < 0:
		fmt.Fprintf(&b, "Net positioning decreased by %d contracts over the past week. ", -weeklyChange)
	default:
		b.WriteString("Net positioning was unchanged over the past week. ")
	}

	switch sentiment {
	case models.SentimentBullish:
		b.WriteString("Commercial positioning is stretched toward historical long extremes, a bullish indication.")
	case models.SentimentBearish:
		b.WriteString("Commercial positioning is stretched toward historical short extremes, a bearish indication.")
	default:
		b.WriteString("Positioning sits within its normal historical range; no directional edge.")
	}

	return b.String()
}
