package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{950, "$950.00"},
		{25400.5, "$25,400.50"},
		{1250000, "$1,250,000.00"},
		{0, "$0.00"},
		{12.3, "$12.30"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice("$", tt.value))
	}
}

func TestFormatPriceRupeeSymbol(t *testing.T) {
	assert.Equal(t, "₹83,000.00", FormatPrice("₹", 83000))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 100.0, Round2(100))
}
