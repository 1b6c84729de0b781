package pricecheck

import (
	"context"
	"errors"
	"testing"

	"github.com/hargabekas/hargabekas/pkg/search"
)

type fakeSearcher struct {
	items []search.Item
	err   error
	query string
	pages int
}

func (f *fakeSearcher) Search(_ context.Context, query string, pages int) ([]search.Item, error) {
	f.query = query
	f.pages = pages
	return f.items, f.err
}

func iphoneIdentity() ProductIdentity {
	return ProductIdentity{Brand: "iPhone", Model: "14 Pro", Spec: "256GB"}
}

func TestRun_EndToEnd(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas mulus", Snippet: "harga 15.000.000", Link: "a"},
		{Title: "Case iPhone 14 Pro", Snippet: "bekas", Link: "b"},
		{Title: "iPhone 14 Pro 256GB BNIB", Snippet: "segel resmi", Link: "c"},
	}}

	report, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.RawCount != 3 {
		t.Errorf("RawCount = %d, want 3", report.RawCount)
	}
	if report.QualifiedCount != 1 {
		t.Fatalf("QualifiedCount = %d, want 1", report.QualifiedCount)
	}
	if report.CleanedCount != 1 {
		t.Fatalf("CleanedCount = %d, want 1", report.CleanedCount)
	}

	if len(report.Listings) != 1 || report.Listings[0].Link != "a" {
		t.Fatalf("Listings = %+v, want the single listing 'a'", report.Listings)
	}
	if report.Listings[0].Price != 15000000 {
		t.Errorf("Price = %d, want 15000000", report.Listings[0].Price)
	}

	s := report.Stats
	if s.Mean != 15000000 || s.Median != 15000000 || s.Min != 15000000 || s.Max != 15000000 {
		t.Errorf("Stats = %+v, want mean=median=min=max=15000000", s)
	}
}

func TestRun_QueryReachesSearcher(t *testing.T) {
	searcher := &fakeSearcher{}

	report, err := New(searcher, WithPages(2)).Run(context.Background(), iphoneIdentity())
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("Run() error = %v, want ErrNoResults", err)
	}

	if searcher.pages != 2 {
		t.Errorf("pages = %d, want 2", searcher.pages)
	}
	if searcher.query != report.Query {
		t.Errorf("report query %q differs from searcher query %q", report.Query, searcher.query)
	}
	want := `harga "iPhone 14 Pro 256GB" (bekas|second|seken) ` +
		`(site:tokopedia.com OR site:shopee.co.id) -baru -kredit ` +
		`-"iPhone 13" -"iPhone 12" -"iPhone 11"`
	if searcher.query != want {
		t.Errorf("query =\n  %s\nwant\n  %s", searcher.query, want)
	}
}

func TestRun_DuplicateLinksCountOnce(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 15.000.000", Link: "same"},
		{Title: "iPhone 14 Pro 256GB second", Snippet: "harga 14.000.000", Link: "same"},
	}}

	report, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.QualifiedCount != 1 {
		t.Errorf("QualifiedCount = %d, want 1 (first occurrence wins)", report.QualifiedCount)
	}
	if report.Listings[0].Price != 15000000 {
		t.Errorf("Price = %d, want the first occurrence's 15000000", report.Listings[0].Price)
	}
}

func TestRun_OutlierRemovedAndSorted(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 15.500.000", Link: "a"},
		{Title: "iPhone 14 Pro 256GB seken", Snippet: "harga 14.800.000", Link: "b"},
		{Title: "iPhone 14 Pro 256GB second", Snippet: "harga 15.200.000", Link: "c"},
		{Title: "iPhone 14 Pro 256GB bekas mulus", Snippet: "harga 15.000.000", Link: "d"},
		{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 90.000.000", Link: "e"},
	}}

	report, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.QualifiedCount != 5 {
		t.Fatalf("QualifiedCount = %d, want 5", report.QualifiedCount)
	}
	if report.CleanedCount != 4 {
		t.Fatalf("CleanedCount = %d, want 4 (90M fenced out)", report.CleanedCount)
	}

	wantOrder := []int64{14800000, 15000000, 15200000, 15500000}
	for i, l := range report.Listings {
		if l.Price != wantOrder[i] {
			t.Errorf("Listings[%d].Price = %d, want %d (ascending)", i, l.Price, wantOrder[i])
		}
	}

	if report.Stats.Min != 14800000 || report.Stats.Max != 15500000 {
		t.Errorf("Stats min/max = %d/%d, want 14800000/15500000", report.Stats.Min, report.Stats.Max)
	}
}

func TestRun_NoValidListings(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "Case iPhone 14 Pro 256GB bekas", Snippet: "harga 150.000", Link: "a"},
		{Title: "iPhone 14 Pro 256GB baru segel", Snippet: "harga 19.000.000", Link: "b"},
	}}

	report, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if !errors.Is(err, ErrNoValidListings) {
		t.Fatalf("Run() error = %v, want ErrNoValidListings", err)
	}
	if report == nil || report.RawCount != 2 || report.QualifiedCount != 0 {
		t.Errorf("report = %+v, want raw=2 qualified=0", report)
	}
}

func TestRun_QualifiedWithoutPriceDropped(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas mulus", Snippet: "nego di chat", Link: "a"},
	}}

	_, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if !errors.Is(err, ErrNoValidListings) {
		t.Fatalf("Run() error = %v, want ErrNoValidListings", err)
	}
}

// rejectAllFence simulates a fence that discards the entire sample.
type rejectAllFence struct{}

func (rejectAllFence) Bounds([]int64) (float64, float64, bool) { return -2, -1, true }

func TestRun_TooVariable(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 15.000.000", Link: "a"},
	}}

	report, err := New(searcher, WithFence(rejectAllFence{})).Run(context.Background(), iphoneIdentity())
	if !errors.Is(err, ErrTooVariable) {
		t.Fatalf("Run() error = %v, want ErrTooVariable", err)
	}
	if report.QualifiedCount != 1 || report.CleanedCount != 0 {
		t.Errorf("report = %+v, want qualified=1 cleaned=0", report)
	}
}

func TestRun_PartialSearchFailureStillProcessed(t *testing.T) {
	searcher := &fakeSearcher{
		items: []search.Item{
			{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 15.000.000", Link: "a"},
		},
		err: &search.APIError{StatusCode: 500},
	}

	report, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if err != nil {
		t.Fatalf("Run() error = %v, want fetched pages processed", err)
	}
	if report.CleanedCount != 1 {
		t.Errorf("CleanedCount = %d, want 1", report.CleanedCount)
	}
}

func TestRun_SearchFailureWithNothingFetched(t *testing.T) {
	searcher := &fakeSearcher{err: &search.APIError{StatusCode: 403, Message: "quota exceeded"}}

	_, err := New(searcher).Run(context.Background(), iphoneIdentity())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *search.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected wrapped *APIError, got %v", err)
	}
}

func TestRun_InvalidIdentity(t *testing.T) {
	searcher := &fakeSearcher{}

	if _, err := New(searcher).Run(context.Background(), ProductIdentity{Brand: "Samsung"}); err == nil {
		t.Error("expected validation error for missing model")
	}
	if searcher.pages != 0 {
		t.Error("pipeline should not search with an invalid identity")
	}
}

func TestRun_SlugFilter(t *testing.T) {
	searcher := &fakeSearcher{items: []search.Item{
		{Title: "iPhone 14 Pro 256GB bekas", Snippet: "harga 15.000.000",
			Link: "https://tokopedia.com/p/iphone-14-pro-256gb"},
		{Title: "iPhone 14 Pro 256GB seken", Snippet: "harga 14.500.000",
			Link: "https://tokopedia.com/p/ip14pro"},
	}}

	report, err := New(searcher, WithSlugFilter(true)).Run(context.Background(), iphoneIdentity())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.QualifiedCount != 1 {
		t.Fatalf("QualifiedCount = %d, want 1 (slug mismatch dropped)", report.QualifiedCount)
	}
	if report.Listings[0].Link != "https://tokopedia.com/p/iphone-14-pro-256gb" {
		t.Errorf("kept listing = %s, want the slug-conforming URL", report.Listings[0].Link)
	}
}
