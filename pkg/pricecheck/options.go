package pricecheck

import (
	"github.com/hargabekas/hargabekas/pkg/extract"
	"github.com/hargabekas/hargabekas/pkg/qualify"
	"github.com/hargabekas/hargabekas/pkg/query"
	"github.com/hargabekas/hargabekas/pkg/stats"
)

// Config holds all Checker configuration.
type Config struct {
	// Pages is how many search result pages to request.
	Pages int

	// MinPrice is the plausibility floor for extracted prices.
	MinPrice int64

	// SlugFilter requires the product slug in listing URL paths.
	// Precise but unforgiving; off by default.
	SlugFilter bool

	// Fence is the outlier-rejection strategy.
	Fence stats.Fence

	// Query configures query composition.
	Query query.Config

	// Qualify configures the listing qualifier. ProductName and
	// RequiredSlug are overwritten per run.
	Qualify qualify.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Pages:    DefaultPages,
		MinPrice: extract.DefaultMinPrice,
		Fence:    stats.TukeyFence{},
		Query:    query.DefaultConfig(),
		Qualify:  qualify.DefaultConfig(),
	}
}

// Option configures a Checker.
type Option func(*Config)

// WithPages sets how many result pages to fetch.
func WithPages(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Pages = n
		}
	}
}

// WithMinPrice sets the minimum plausible price.
func WithMinPrice(v int64) Option {
	return func(c *Config) {
		c.MinPrice = v
	}
}

// WithSlugFilter toggles the URL slug requirement.
func WithSlugFilter(enabled bool) Option {
	return func(c *Config) {
		c.SlugFilter = enabled
	}
}

// WithFence sets the outlier-rejection strategy.
func WithFence(f stats.Fence) Option {
	return func(c *Config) {
		if f != nil {
			c.Fence = f
		}
	}
}

// WithQueryConfig sets the query composition settings.
func WithQueryConfig(cfg query.Config) Option {
	return func(c *Config) {
		c.Query = cfg
	}
}

// WithQualifyConfig sets the qualifier keyword lists.
func WithQualifyConfig(cfg qualify.Config) Option {
	return func(c *Config) {
		c.Qualify = cfg
	}
}
