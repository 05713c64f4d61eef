package rollups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionRatio(t *testing.T) {
	tests := []struct {
		name     string
		num      int64
		den      int64
		expected float64
	}{
		{"zero denominator", 5, 0, 0},
		{"negative denominator", 5, -1, 0},
		{"zero numerator", 0, 100, 0},
		{"half", 1, 2, 50},
		{"full", 10, 10, 100},
		{"rounds to two decimals", 1, 3, 33.33},
		{"capped at hundred", 150, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConversionRatio(tt.num, tt.den))
		})
	}
}

func TestCalculateConversions(t *testing.T) {
	rates := CalculateConversions(200, 50, 10, 1000, 40)

	assert.Equal(t, 25.0, rates.ViewToCart)
	assert.Equal(t, 20.0, rates.CartToPurchase)
	assert.Equal(t, 5.0, rates.ViewToPurchase)
	assert.Equal(t, 4.0, rates.SearchClickRate)
}

func TestCalculateConversionsEmpty(t *testing.T) {
	rates := CalculateConversions(0, 0, 0, 0, 0)

	assert.Equal(t, 0.0, rates.ViewToCart)
	assert.Equal(t, 0.0, rates.CartToPurchase)
	assert.Equal(t, 0.0, rates.ViewToPurchase)
	assert.Equal(t, 0.0, rates.SearchClickRate)
}
