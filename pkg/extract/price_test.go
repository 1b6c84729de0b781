package extract

import "testing"

func TestPrice_GroupedAmounts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"with currency marker", "Rp 1.500.000", 1500000},
		{"marker with dot", "Rp. 2.750.000 nego", 2750000},
		{"no marker", "dijual 15.000.000 saja", 15000000},
		{"comma grouping", "iPhone 13 second 8,500,000", 8500000},
		{"embedded in sentence", "harga Samsung Z Flip 5 bekas 9.250.000 mulus", 9250000},
		{"threshold boundary", "cuma 100.001", 100001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := New(0).Price(tt.text)
			if !ok {
				t.Fatalf("Price(%q) = absent, want %d", tt.text, tt.want)
			}
			if got != tt.want {
				t.Errorf("Price(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestPrice_BareDigitRuns(t *testing.T) {
	got, ok := New(0).Price("harga 1500000 nego tipis")
	if !ok || got != 1500000 {
		t.Errorf("Price() = %d, %v; want 1500000, true", got, ok)
	}
}

func TestPrice_Absent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no numbers", "kondisi mulus fullset"},
		{"small grouped value", "diskon 50.000"},
		{"threshold is exclusive", "pas 100.000"},
		{"short bare run", "tipe 14256 pro"},
		{"model numbers only", "iPhone 14 Pro 256GB"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := New(0).Price(tt.text); ok {
				t.Errorf("Price(%q) = %d, want absent", tt.text, got)
			}
		})
	}
}

func TestPrice_FirstPlausibleWins(t *testing.T) {
	// The review count (1.234) is too small; the price after it qualifies.
	got, ok := New(0).Price("terjual 1.234 kali, harga 3.500.000")
	if !ok || got != 3500000 {
		t.Errorf("Price() = %d, %v; want 3500000, true", got, ok)
	}
}

func TestPrice_GroupedFollowedByDigitRejected(t *testing.T) {
	// 1.500.0001 reads as grouped until the stray digit; not a price.
	if got, ok := New(0).Price("kode 1.500.0001"); ok {
		t.Errorf("Price() = %d, want absent", got)
	}
}

func TestPrice_CustomThreshold(t *testing.T) {
	e := New(1_000_000)
	if got, ok := e.Price("harga 500.000"); ok {
		t.Errorf("Price() = %d, want absent below custom threshold", got)
	}
	if got, ok := e.Price("harga 1.500.000"); !ok || got != 1500000 {
		t.Errorf("Price() = %d, %v; want 1500000, true", got, ok)
	}
}
