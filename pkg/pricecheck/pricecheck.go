// Package pricecheck estimates the resale market price of a consumer product
// by searching marketplace listings, qualifying them as genuine used-item
// offers, extracting prices from their text and rejecting statistical
// outliers.
package pricecheck

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hargabekas/hargabekas/internal/logger"
	"github.com/hargabekas/hargabekas/pkg/extract"
	"github.com/hargabekas/hargabekas/pkg/qualify"
	"github.com/hargabekas/hargabekas/pkg/query"
	"github.com/hargabekas/hargabekas/pkg/search"
	"github.com/hargabekas/hargabekas/pkg/stats"
)

// DefaultPages is how many search result pages a run fetches.
const DefaultPages = 3

// ProductIdentity describes the product being priced. Brand and Model are
// required; Spec narrows the search (storage size, variant).
type ProductIdentity struct {
	Brand string `json:"brand" validate:"required"`
	Model string `json:"model" validate:"required"`
	Spec  string `json:"spec,omitempty"`
}

// Name returns the free-text product name the query and the relevance rule
// are built from.
func (p ProductIdentity) Name() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Brand, p.Model, p.Spec} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// QualifiedListing is a search result that passed qualification and yielded
// a price.
type QualifiedListing struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	Link    string `json:"link" yaml:"link"`
	Price   int64  `json:"price" yaml:"price"`
}

// Report is the outcome of one pipeline run. On a soft error the counts are
// filled up to the stage that went empty and the statistics stay zero.
type Report struct {
	Query          string        `json:"query" yaml:"query"`
	RawCount       int           `json:"raw_count" yaml:"raw_count"`
	QualifiedCount int           `json:"qualified_count" yaml:"qualified_count"`
	CleanedCount   int           `json:"cleaned_count" yaml:"cleaned_count"`
	Stats          stats.Summary `json:"stats" yaml:"stats"`

	// Listings holds the qualified listings whose price survived outlier
	// filtering, sorted by ascending price.
	Listings []QualifiedListing `json:"listings" yaml:"listings"`
}

// Checker runs the price-estimation pipeline. Construct with New; a Checker
// is safe for sequential reuse across products.
type Checker struct {
	searcher  search.Searcher
	builder   *query.Builder
	extractor *extract.Extractor
	fence     stats.Fence
	validate  *validator.Validate
	cfg       Config
}

// New creates a Checker backed by searcher.
func New(searcher search.Searcher, opts ...Option) *Checker {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Checker{
		searcher:  searcher,
		builder:   query.New(cfg.Query),
		extractor: extract.New(cfg.MinPrice),
		fence:     cfg.Fence,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Run executes the full pipeline for one product. The returned Report is
// non-nil whenever the search succeeded, including alongside the soft
// sentinels ErrNoResults, ErrNoValidListings and ErrTooVariable.
func (c *Checker) Run(ctx context.Context, product ProductIdentity) (*Report, error) {
	if err := c.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}

	name := product.Name()
	q := c.builder.Build(name)
	report := &Report{Query: q}

	logger.Info("starting price check", "product", name, "pages", c.cfg.Pages)
	logger.Debug("search query built", "query", q)

	items, err := c.searcher.Search(ctx, q, c.cfg.Pages)
	if err != nil {
		if len(items) == 0 {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		// Pages already fetched are still usable; only the remaining
		// pagination was lost.
		logger.Warn("pagination aborted, continuing with fetched pages",
			"items", len(items), "error", err)
	}

	report.RawCount = len(items)
	if len(items) == 0 {
		return report, ErrNoResults
	}

	qualified := c.qualifyListings(items, product)
	report.QualifiedCount = len(qualified)
	if len(qualified) == 0 {
		return report, ErrNoValidListings
	}

	sample := make([]int64, len(qualified))
	for i, l := range qualified {
		sample[i] = l.Price
	}

	kept := qualified
	lo, hi, fenced := c.fence.Bounds(sample)
	if fenced {
		kept = make([]QualifiedListing, 0, len(qualified))
		for _, l := range qualified {
			if v := float64(l.Price); v >= lo && v <= hi {
				kept = append(kept, l)
			}
		}
	}

	report.CleanedCount = len(kept)
	if len(kept) == 0 {
		return report, ErrTooVariable
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Price < kept[j].Price })
	report.Listings = kept

	cleaned := make([]int64, len(kept))
	for i, l := range kept {
		cleaned[i] = l.Price
	}
	report.Stats, _ = stats.Summarize(cleaned)

	logger.Info("price check complete",
		"raw", report.RawCount,
		"qualified", report.QualifiedCount,
		"cleaned", report.CleanedCount,
		"median", report.Stats.Median)

	return report, nil
}

// qualifyListings applies the qualifier, link dedup and price extraction in
// discovery order. A link is claimed only once a price was extracted, so a
// later duplicate with usable text still gets its chance.
func (c *Checker) qualifyListings(items []search.Item, product ProductIdentity) []QualifiedListing {
	qcfg := c.cfg.Qualify
	qcfg.ProductName = product.Name()
	if c.cfg.SlugFilter {
		qcfg.RequiredSlug = query.Slug(product.Brand, product.Model)
	}
	qualifier := qualify.New(qcfg)

	seen := make(map[string]struct{}, len(items))
	var qualified []QualifiedListing

	for _, it := range items {
		if v := qualifier.Check(it.Title, it.Snippet, it.Link); !v.OK {
			logger.Debug("listing rejected", "rule", v.Rule, "title", it.Title)
			continue
		}

		if _, dup := seen[it.Link]; dup {
			logger.Debug("duplicate link skipped", "link", it.Link)
			continue
		}

		price, ok := c.extractor.Price(it.Title + " " + it.Snippet)
		if !ok {
			logger.Debug("no extractable price", "title", it.Title)
			continue
		}

		seen[it.Link] = struct{}{}
		qualified = append(qualified, QualifiedListing{
			Title:   it.Title,
			Snippet: it.Snippet,
			Link:    it.Link,
			Price:   price,
		})
	}

	return qualified
}
