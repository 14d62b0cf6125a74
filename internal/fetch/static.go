package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"merchfinder/internal/domain"
)

// Static fetches search results with a single HTTP GET and CSS-selector
// extraction. Suitable for targets whose listings are server-rendered.
type Static struct {
	logger *zap.Logger

	// Transport overrides the collector's round tripper; tests plug
	// httpmock in here.
	Transport http.RoundTripper

	// Fallback, when set, is consulted with the raw page body if the
	// extraction rules matched nothing.
	Fallback FallbackExtractor
}

// NewStatic builds the plain-HTTP fetcher.
func NewStatic(logger *zap.Logger) *Static {
	return &Static{logger: logger}
}

// Fetch issues one GET to the target's search URL and extracts up to
// staticMaxListings raw listings.
func (f *Static) Fetch(ctx context.Context, target domain.Target, query string) ([]domain.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: err}
	}

	parsed, err := url.Parse(target.BaseURL)
	if err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: fmt.Errorf("parse base url: %w", err)}
	}

	c := colly.NewCollector(
		colly.UserAgent(randomUserAgent()),
		colly.AllowedDomains(parsed.Host),
	)
	c.SetRequestTimeout(target.Timeout)
	if f.Transport != nil {
		c.WithTransport(f.Transport)
	}
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: target.Delay}); err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: fmt.Errorf("configure rate limits: %w", err)}
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", acceptLanguage)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	var listings []domain.RawListing
	c.OnHTML(target.Rules.Container, func(e *colly.HTMLElement) {
		if len(listings) >= staticMaxListings {
			return
		}
		listings = append(listings, ListingFromSelection(e.DOM, target.Rules))
	})

	var pageBody []byte
	c.OnResponse(func(r *colly.Response) {
		pageBody = r.Body
	})

	var requestErr error
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		requestErr = fmt.Errorf("request failed (status %d): %w", status, err)
	})

	searchURL := target.SearchURL(query)
	if err := c.Visit(searchURL); err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: err}
	}
	c.Wait()

	if requestErr != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: requestErr}
	}

	if len(listings) == 0 && f.Fallback != nil && len(pageBody) > 0 {
		listings = f.Fallback.ExtractListings(ctx, string(pageBody), target.Name, query)
		f.logger.Info("structural selectors matched nothing, used extraction fallback",
			zap.String("target", target.ID),
			zap.Int("recovered", len(listings)),
		)
	}

	f.logger.Debug("static fetch complete",
		zap.String("target", target.ID),
		zap.String("url", searchURL),
		zap.Int("listings", len(listings)),
	)
	return listings, nil
}
