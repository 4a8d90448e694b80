package capture

import "testing"

func TestPriceRangeKnownCategories(t *testing.T) {
	for _, category := range PurposeCategories() {
		band, ok := PriceRange(category)
		if !ok {
			t.Errorf("expected a price band for %q", category)
			continue
		}
		if band.Min <= 0 || band.Max <= band.Min {
			t.Errorf("%q has a nonsensical band %+v", category, band)
		}
	}
}

func TestPriceRangeUnknown(t *testing.T) {
	if _, ok := PriceRange("spaceship"); ok {
		t.Fatal("expected no band for unknown purpose")
	}
	if _, ok := PriceRange(""); ok {
		t.Fatal("expected no band for empty purpose")
	}
}

func TestPriceRangeCaseInsensitive(t *testing.T) {
	band, ok := PriceRange("  Business ")
	if !ok || band.Min != 30000 || band.Max != 60000 {
		t.Fatalf("unexpected band for business: %+v ok=%v", band, ok)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{500, "₹500"},
		{30000, "₹30k"},
		{150000, "₹1.5L"},
		{500000, "₹5.0L"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPriceRange(t *testing.T) {
	band, _ := PriceRange("business")
	if got := FormatPriceRange(band); got != "₹30k - ₹60k" {
		t.Fatalf("unexpected range string: %q", got)
	}
}
