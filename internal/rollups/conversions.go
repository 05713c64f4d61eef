package rollups

import "math"

// ConversionRates holds the derived funnel percentages for a rollup row.
type ConversionRates struct {
	ViewToCart      float64 `json:"viewToCart"`
	CartToPurchase  float64 `json:"cartToPurchase"`
	ViewToPurchase  float64 `json:"viewToPurchase"`
	SearchClickRate float64 `json:"searchClickRate"`
}

// ConversionRatio returns numerator/denominator as a percentage rounded to
// two decimals. A zero denominator yields 0, and the result is capped at
// 100 so partial funnels (e.g. carts without recorded views) stay in range.
func ConversionRatio(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	ratio := float64(numerator) * 100.0 / float64(denominator)
	if ratio > 100 {
		ratio = 100
	}
	return math.Round(ratio*100) / 100
}

// CalculateConversions derives all four rates from raw counters.
func CalculateConversions(views, addToCart, purchases, searchImpressions, searchClicks int64) ConversionRates {
	return ConversionRates{
		ViewToCart:      ConversionRatio(addToCart, views),
		CartToPurchase:  ConversionRatio(purchases, addToCart),
		ViewToPurchase:  ConversionRatio(purchases, views),
		SearchClickRate: ConversionRatio(searchClicks, searchImpressions),
	}
}
