// Package qualify classifies search results as genuine used-item listings.
//
// A result qualifies only when it is relevant to the queried product AND
// reads like a standalone used-unit offer: not an accessory, not a storefront
// catalogue page, carrying an explicit used-condition signal and no
// new-condition signal. The checks run as a fixed sequence of named rules so
// a rejection always names the rule that fired.
package qualify

import (
	"strings"
)

// Verdict is the outcome of qualifying one listing.
type Verdict struct {
	OK bool
	// Rule names the rejecting rule; empty when OK.
	Rule string
}

// Config controls which rules run and what they match on. Zero-value slices
// fall back to the defaults in DefaultConfig.
type Config struct {
	// ProductName enables the relevance rule: every token longer than one
	// character must appear in the listing text.
	ProductName string

	// RequiredSlug enables the slug rule: the listing URL must contain it.
	// Marketplaces embed a product slug in listing paths; requiring it
	// trades recall for precision.
	RequiredSlug string

	AccessoryTerms   []string
	StorefrontTerms  []string
	SellTerms        []string
	UsedTerms        []string
	NewTerms         []string
	BlockedLinkTerms []string
}

// DefaultConfig returns the keyword lists for Indonesian marketplace text.
func DefaultConfig() Config {
	return Config{
		AccessoryTerms: []string{
			"case", "casing", "softcase", "cover", "charger", "kabel",
			"cable", "baterai", "battery", "screen", "lcd", "tempered glass",
			"anti gores", "headset", "earphone", "sparepart", "spare part",
		},
		StorefrontTerms: []string{
			"store", "online", "full product list", "best price",
			"katalog", "daftar harga",
		},
		SellTerms: []string{"jual", "dijual", "sell"},
		UsedTerms: []string{"bekas", "second", "seken", "2nd", "preloved", "used"},
		NewTerms: []string{
			"bnib", "brand new", "segel", "sealed", "garansi resmi",
			"official warranty", "official store", "baru", "new",
		},
		BlockedLinkTerms: []string{"youtube.com", "/berita/"},
	}
}

// listing is the normalized view a rule checks.
type listing struct {
	text string // lowercased title + snippet
	link string // lowercased URL
}

// rule is one named pass/fail check.
type rule struct {
	name  string
	allow func(l listing) bool
}

// Qualifier runs the rule sequence over listings.
type Qualifier struct {
	rules []rule
}

// New builds a Qualifier from cfg. The relevance and slug rules are included
// only when ProductName / RequiredSlug are set; content rules always run.
func New(cfg Config) *Qualifier {
	def := DefaultConfig()
	if cfg.AccessoryTerms == nil {
		cfg.AccessoryTerms = def.AccessoryTerms
	}
	if cfg.StorefrontTerms == nil {
		cfg.StorefrontTerms = def.StorefrontTerms
	}
	if cfg.SellTerms == nil {
		cfg.SellTerms = def.SellTerms
	}
	if cfg.UsedTerms == nil {
		cfg.UsedTerms = def.UsedTerms
	}
	if cfg.NewTerms == nil {
		cfg.NewTerms = def.NewTerms
	}
	if cfg.BlockedLinkTerms == nil {
		cfg.BlockedLinkTerms = def.BlockedLinkTerms
	}

	q := &Qualifier{}

	if tokens := requiredTokens(cfg.ProductName); len(tokens) > 0 {
		q.rules = append(q.rules, rule{"relevance", func(l listing) bool {
			for _, tok := range tokens {
				if !strings.Contains(l.text, tok) {
					return false
				}
			}
			return true
		}})
	}

	q.rules = append(q.rules,
		rule{"blocked-link", func(l listing) bool {
			return !containsAny(l.link, cfg.BlockedLinkTerms)
		}},
		rule{"accessory", func(l listing) bool {
			return !containsAny(l.text, cfg.AccessoryTerms)
		}},
		rule{"storefront", func(l listing) bool {
			if !containsAny(l.text, cfg.StorefrontTerms) {
				return true
			}
			return containsAny(l.text, cfg.SellTerms)
		}},
		rule{"used-signal", func(l listing) bool {
			return containsAny(l.text, cfg.UsedTerms)
		}},
		rule{"new-signal", func(l listing) bool {
			return !containsAny(l.text, cfg.NewTerms)
		}},
	)

	if slug := strings.ToLower(strings.TrimSpace(cfg.RequiredSlug)); slug != "" {
		q.rules = append(q.rules, rule{"slug", func(l listing) bool {
			return strings.Contains(l.link, slug)
		}})
	}

	return q
}

// Check evaluates the rules in order and stops at the first failure.
func (q *Qualifier) Check(title, snippet, link string) Verdict {
	l := listing{
		text: strings.ToLower(title + " " + snippet),
		link: strings.ToLower(link),
	}

	for _, r := range q.rules {
		if !r.allow(l) {
			return Verdict{Rule: r.name}
		}
	}
	return Verdict{OK: true}
}

// requiredTokens splits a product name into the tokens the relevance rule
// demands. One-character tokens carry no signal and are dropped.
func requiredTokens(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) > 1 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s, term) {
			return true
		}
	}
	return false
}
