// Package extract pulls currency amounts out of free-form listing text.
//
// Marketplace titles and snippets mix the asking price with stock counts,
// model numbers and review counts. The extractor prefers price-shaped
// numbers: digit runs grouped in thousands (1.500.000) or long bare runs,
// above a minimum plausible value. The result is a best-effort first match,
// not a guarantee.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMinPrice is the smallest value accepted as a plausible price,
// in the smallest currency unit. Anything at or below it is treated as
// noise (a quantity, a model number, a review count).
const DefaultMinPrice = 100_000

// amountPattern matches either a thousands-grouped digit run or a bare run
// of six or more digits, optionally preceded by an "Rp" currency marker.
// The grouped alternative must not be immediately followed by another digit;
// RE2 has no lookahead, so that check happens on the match indices below.
var amountPattern = regexp.MustCompile(`(?i)(?:rp\s?\.?)?(\d{1,3}(?:[.,]\d{3})+|\d{6,})`)

// Extractor parses prices from unstructured text.
type Extractor struct {
	// MinPrice is the exclusive lower bound for accepted values.
	// Zero means DefaultMinPrice.
	MinPrice int64
}

// New creates an Extractor. minPrice <= 0 selects DefaultMinPrice.
func New(minPrice int64) *Extractor {
	if minPrice <= 0 {
		minPrice = DefaultMinPrice
	}
	return &Extractor{MinPrice: minPrice}
}

// Price scans text for currency-amount candidates in order of appearance and
// returns the first one whose value exceeds MinPrice. The second return is
// false when no candidate qualifies.
func (e *Extractor) Price(text string) (int64, bool) {
	min := e.MinPrice
	if min <= 0 {
		min = DefaultMinPrice
	}

	for _, m := range amountPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		candidate := text[start:end]

		// A grouped amount directly followed by another digit is not a
		// price ("1.500.0001" is something else entirely).
		if strings.ContainsAny(candidate, ".,") && end < len(text) && isDigit(text[end]) {
			continue
		}

		value, err := strconv.ParseInt(stripNonDigits(candidate), 10, 64)
		if err != nil {
			continue
		}
		if value > min {
			return value, true
		}
	}

	return 0, false
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
