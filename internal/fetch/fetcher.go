// Package fetch retrieves raw product listings from configured targets,
// either over plain HTTP or through a shared headless browser.
package fetch

import (
	"context"

	"merchfinder/internal/domain"
)

// Fetcher retrieves the raw listings for one target's search results page.
type Fetcher interface {
	Fetch(ctx context.Context, target domain.Target, query string) ([]domain.RawListing, error)
}

// FallbackExtractor recovers listings from raw page markup when structural
// selectors yield nothing. Implementations are best-effort and must return
// an empty slice rather than an error.
type FallbackExtractor interface {
	ExtractListings(ctx context.Context, pageMarkup, sourceName, query string) []domain.RawListing
}

// staticMaxListings bounds per-target output from static pages so a single
// verbose source cannot dominate consolidation cost.
const staticMaxListings = 10
