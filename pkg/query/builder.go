// Package query composes search-engine queries for used-item listings.
//
// The generated query asks for the product phrase verbatim, requires one of
// the used-condition synonyms, restricts results to known marketplaces and
// excludes new-condition indicators plus the immediately preceding model
// generations (so a "Z Flip 5" search is not flooded with Z Flip 4 results).
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultGenerationWindow is how many older model generations get negative
// keywords. The value is a heuristic with no derivation beyond "enough to
// cover the listings that actually show up".
const DefaultGenerationWindow = 3

// Config controls query composition.
type Config struct {
	// UsedTerms are the used-condition synonyms OR-ed into the query.
	UsedTerms []string
	// NegativeTerms are excluded outright (new-condition and financing noise).
	NegativeTerms []string
	// Marketplaces are the site: restrictions, OR-ed together.
	Marketplaces []string
	// GenerationWindow is how many preceding numeric generations to exclude.
	// Zero means DefaultGenerationWindow; negative disables the exclusions.
	GenerationWindow int
}

// DefaultConfig returns the marketplace and term defaults for Indonesian
// used-phone listings.
func DefaultConfig() Config {
	return Config{
		UsedTerms:        []string{"bekas", "second", "seken"},
		NegativeTerms:    []string{"baru", "kredit"},
		Marketplaces:     []string{"tokopedia.com", "shopee.co.id"},
		GenerationWindow: DefaultGenerationWindow,
	}
}

// Builder composes queries from product names.
type Builder struct {
	cfg Config
}

// New creates a Builder, filling zero-value Config fields with defaults.
func New(cfg Config) *Builder {
	def := DefaultConfig()
	if len(cfg.UsedTerms) == 0 {
		cfg.UsedTerms = def.UsedTerms
	}
	if len(cfg.NegativeTerms) == 0 {
		cfg.NegativeTerms = def.NegativeTerms
	}
	if len(cfg.Marketplaces) == 0 {
		cfg.Marketplaces = def.Marketplaces
	}
	if cfg.GenerationWindow == 0 {
		cfg.GenerationWindow = def.GenerationWindow
	}
	return &Builder{cfg: cfg}
}

// Build produces the full search query for a product name.
func (b *Builder) Build(name string) string {
	name = strings.TrimSpace(name)

	phrase := name
	if strings.ContainsAny(name, " \t") {
		phrase = `"` + name + `"`
	}

	parts := []string{"harga", phrase}

	if len(b.cfg.UsedTerms) > 0 {
		parts = append(parts, "("+strings.Join(b.cfg.UsedTerms, "|")+")")
	}

	if len(b.cfg.Marketplaces) > 0 {
		sites := make([]string, len(b.cfg.Marketplaces))
		for i, m := range b.cfg.Marketplaces {
			sites[i] = "site:" + m
		}
		parts = append(parts, "("+strings.Join(sites, " OR ")+")")
	}

	for _, term := range b.cfg.NegativeTerms {
		parts = append(parts, "-"+term)
	}

	parts = append(parts, b.negativeGenerations(name)...)

	return strings.Join(parts, " ")
}

// generationPattern locates the first standalone integer token in a product
// name: "Samsung Z Flip 5 256GB" -> base "Samsung Z Flip", generation 5.
var generationPattern = regexp.MustCompile(`\b(\d+)\b`)

// negativeGenerations derives exclusion phrases for the model generations
// immediately preceding the one in the product name.
func (b *Builder) negativeGenerations(name string) []string {
	if b.cfg.GenerationWindow < 0 {
		return nil
	}

	loc := generationPattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return nil
	}

	generation, err := strconv.Atoi(name[loc[2]:loc[3]])
	if err != nil {
		return nil
	}
	base := strings.TrimSpace(name[:loc[0]])
	if base == "" {
		return nil
	}

	var out []string
	for i := 1; i <= b.cfg.GenerationWindow; i++ {
		if generation-i <= 0 {
			break
		}
		out = append(out, fmt.Sprintf("-%q", fmt.Sprintf("%s %d", base, generation-i)))
	}
	return out
}

// slugPattern strips everything that is not a letter, digit or whitespace.
var slugPattern = regexp.MustCompile(`[^a-z0-9\s]+`)

// Slug normalizes name parts into the lowercase hyphenated form marketplaces
// embed in listing URL paths: "Samsung Z Flip 5" -> "samsung-z-flip-5".
func Slug(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	joined = slugPattern.ReplaceAllString(joined, "")
	return strings.Join(strings.Fields(joined), "-")
}
