package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Availability is the stock status of a product listing.
type Availability string

const (
	InStock      Availability = "IN_STOCK"
	OutOfStock   Availability = "OUT_OF_STOCK"
	LimitedStock Availability = "LIMITED_STOCK"
)

// ExtractionRules are the CSS selectors applied per product container on a
// target's search results page.
type ExtractionRules struct {
	Container    string
	Name         string
	Price        string
	Image        string
	Link         string
	Availability string
	Description  string

	// LoadMore locates the pagination control on rendered pages. Empty
	// means the page has no "load more" flow worth traversing.
	LoadMore string

	// EmbeddedJSONAttr names a container attribute carrying a complete
	// structured product payload. When set, the rendered fetcher reads
	// that JSON instead of parsing visible markup.
	EmbeddedJSONAttr string
}

// Target is the immutable configuration of one external source. Created at
// process start from the static catalog, never mutated afterwards.
type Target struct {
	ID          string
	Name        string
	BaseURL     string
	SearchPath  string
	Enabled     bool
	Priority    int
	Delay       time.Duration
	Timeout     time.Duration
	Render      bool
	SettleDelay time.Duration
	MaxProducts int
	Rules       ExtractionRules
}

// SearchURL builds the search results URL for a query, URL-encoding the
// query into the target's search path template.
func (t Target) SearchURL(query string) string {
	return t.BaseURL + t.SearchPath + url.QueryEscape(query)
}

// RawListing is unvalidated scrape output: whatever text a fetcher pulled
// out of a page, before normalization.
type RawListing struct {
	Name         string
	PriceText    string
	ImageURL     string
	LinkURL      string
	Availability string
	Description  string
}

// Price is a parsed product price. Amount is zero when the raw price text
// could not be parsed; Formatted stays human-readable either way.
type Price struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Currency  string  `json:"currency"`
}

// Product is the canonical merchandise record. Built once during
// normalization, immutable afterwards, and scoped to a single search.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	URL          string       `json:"url"`
	ImageURL     string       `json:"image_url,omitempty"`
	Price        Price        `json:"price"`
	Brand        string       `json:"brand,omitempty"`
	Category     string       `json:"category,omitempty"`
	Availability Availability `json:"availability"`
	Source       string       `json:"source"`
	ScrapedAt    time.Time    `json:"scraped_at"`
}

// ScrapeOutcome is the per-target result of one orchestration run.
type ScrapeOutcome struct {
	Target   string        `json:"target"`
	Priority int           `json:"priority"`
	Success  bool          `json:"success"`
	Products []Product     `json:"products"`
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Intent is the structured interpretation of a free-text query, produced
// best-effort by the text-generation collaborator.
type Intent struct {
	Item     string  `json:"item,omitempty"`
	Team     string  `json:"team,omitempty"`
	Driver   string  `json:"driver,omitempty"`
	Category string  `json:"category,omitempty"`
	Budget   float64 `json:"budget,omitempty"`
}

// IsZero reports whether no intent field was extracted.
func (i Intent) IsZero() bool {
	return i.Item == "" && i.Team == "" && i.Driver == "" && i.Category == "" && i.Budget == 0
}

// SearchResult is the final payload of one search request.
type SearchResult struct {
	Products   []Product     `json:"products"`
	Query      string        `json:"query"`
	Intent     Intent        `json:"intent"`
	Summary    string        `json:"summary"`
	Sources    []string      `json:"sources"`
	TotalFound int           `json:"total_found"`
	Elapsed    time.Duration `json:"elapsed"`
}

// FetchError wraps any network, navigation, or parse failure from a single
// target fetch. The retry wrapper decides whether it is worth another try.
type FetchError struct {
	Target string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Target, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
