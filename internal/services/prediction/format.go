package prediction

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with the currency symbol and thousands
// separators, always two decimal places: "₹1,250,000.00".
func FormatPrice(symbol string, v float64) string {
	return symbol + humanize.FormatFloat("#,###.##", v)
}

// Round2 rounds half away from zero to two decimal places without the
// binary-float drift of a naive multiply-round-divide.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
