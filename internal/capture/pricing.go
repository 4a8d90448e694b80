package capture

import (
	"fmt"
	"strings"
)

// PriceBand is an illustrative budgetary range in INR for one project
// category. Values are static estimates, not quotes.
type PriceBand struct {
	Min int
	Max int
}

var pricingTable = map[string]PriceBand{
	"portfolio": {Min: 15000, Max: 25000},
	"business":  {Min: 30000, Max: 60000},
	"ecommerce": {Min: 60000, Max: 150000},
	"webapp":    {Min: 60000, Max: 300000},
	"mobile":    {Min: 50000, Max: 200000},
	"ai":        {Min: 80000, Max: 500000},
	"data":      {Min: 50000, Max: 200000},
	"design":    {Min: 20000, Max: 100000},
}

// PriceRange looks up the band for a purpose category. ok is false for an
// unknown or empty purpose.
func PriceRange(purpose string) (PriceBand, bool) {
	band, ok := pricingTable[strings.ToLower(strings.TrimSpace(purpose))]
	return band, ok
}

// FormatPrice renders an INR amount with lakh/thousand abbreviations
// (₹1.5L, ₹30k).
func FormatPrice(amount int) string {
	switch {
	case amount >= 100000:
		return fmt.Sprintf("₹%.1fL", float64(amount)/100000)
	case amount >= 1000:
		return fmt.Sprintf("₹%dk", amount/1000)
	default:
		return fmt.Sprintf("₹%d", amount)
	}
}

// FormatPriceRange renders a band as "₹30k - ₹60k".
func FormatPriceRange(band PriceBand) string {
	return FormatPrice(band.Min) + " - " + FormatPrice(band.Max)
}
