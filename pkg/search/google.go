package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hargabekas/hargabekas/internal/logger"
)

// DefaultBaseURL is the Google Custom Search JSON API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// pageSize is the API maximum per request.
const pageSize = 10

// Config holds the client settings.
type Config struct {
	// APIKey and EngineID are the Google credentials (key / cx).
	APIKey   string
	EngineID string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Timeout applies when no HTTPClient is supplied.
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client talks to the Google Custom Search JSON API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{cfg: cfg, http: httpClient}
}

// Search fetches result pages sequentially, stopping early when a page comes
// back empty. A failure after at least one successful page returns the items
// collected so far alongside the error, so callers can keep working with the
// pages that did arrive.
func (c *Client) Search(ctx context.Context, query string, pages int) ([]Item, error) {
	if pages < 1 {
		pages = 1
	}

	var items []Item
	for page := 0; page < pages; page++ {
		start := page*pageSize + 1

		batch, err := c.fetchPage(ctx, query, start)
		if err != nil {
			return items, fmt.Errorf("page %d: %w", page+1, err)
		}
		if len(batch) == 0 {
			logger.Debug("empty result page, stopping pagination", "page", page+1)
			break
		}

		items = append(items, batch...)
	}

	return items, nil
}

// apiResponse is the subset of the API reply the client consumes.
type apiResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
		Link        string `json:"link"`
	} `json:"items"`
}

// apiErrorResponse carries the API's error message on non-2xx replies.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) fetchPage(ctx context.Context, query string, start int) ([]Item, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("cx", c.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(pageSize))
	params.Set("start", strconv.Itoa(start))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var parsed apiErrorResponse
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Message = parsed.Error.Message
		}
		return nil, apiErr
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		snippet := it.Snippet
		if snippet == "" && it.HTMLSnippet != "" {
			snippet = stripHTML(it.HTMLSnippet)
		}
		items = append(items, Item{
			Title:   cleanText(it.Title),
			Snippet: cleanText(snippet),
			Link:    it.Link,
		})
	}

	return items, nil
}

// stripHTML drops markup from htmlSnippet values (the API bolds query terms
// with <b> tags there).
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// cleanText collapses runs of whitespace, including the non-breaking spaces
// and newlines the API sprinkles through snippets.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
