package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"merchfinder/internal/domain"
)

// Rendered fetches JavaScript-driven pages through the shared headless
// browser, including "load more" traversal and, for targets that embed
// structured product JSON, a fast path that skips markup parsing entirely.
type Rendered struct {
	browser *BrowserManager
	logger  *zap.Logger

	// Fallback, when set, is consulted with the captured DOM if the
	// extraction rules matched nothing.
	Fallback FallbackExtractor
}

// NewRendered builds the headless-browser fetcher.
func NewRendered(browser *BrowserManager, logger *zap.Logger) *Rendered {
	return &Rendered{browser: browser, logger: logger}
}

// Fetch navigates a fresh tab to the target's search URL, waits for the page
// to settle, expands results via the load-more flow, then extracts listings.
// Any navigation or evaluation failure fails the whole call; partial DOM
// state is never returned as a partial success.
func (f *Rendered) Fetch(ctx context.Context, target domain.Target, query string) ([]domain.RawListing, error) {
	tab, release, err := f.browser.Acquire()
	if err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: fmt.Errorf("acquire browser: %w", err)}
	}
	defer release()

	tabCtx, cancel := context.WithTimeout(tab, target.Timeout)
	defer cancel()

	// Propagate caller cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	settle := target.SettleDelay
	if settle <= 0 {
		settle = time.Second
	}

	searchURL := target.SearchURL(query)
	err = chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": acceptLanguage}),
		chromedp.Navigate(searchURL),
		chromedp.Sleep(settle),
	)
	if err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: fmt.Errorf("navigate %s: %w", searchURL, err)}
	}

	pager := &domPager{rules: target.Rules}
	clicks, err := TraverseLoadMore(tabCtx, pager, maxLoadMoreAttempts, target.MaxProducts, loadMoreWait)
	if err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: fmt.Errorf("load-more traversal: %w", err)}
	}

	var listings []domain.RawListing
	if target.Rules.EmbeddedJSONAttr != "" {
		listings, err = f.extractEmbedded(tabCtx, target)
	}
	if err == nil && len(listings) == 0 {
		// Either a markup-only target or an embedded payload that came
		// back empty; parse the visible DOM.
		listings, err = f.extractMarkup(ctx, tabCtx, target, query)
	}
	if err != nil {
		return nil, &domain.FetchError{Target: target.ID, Err: err}
	}

	f.logger.Debug("rendered fetch complete",
		zap.String("target", target.ID),
		zap.String("url", searchURL),
		zap.Int("load_more_clicks", clicks),
		zap.Int("listings", len(listings)),
	)
	return listings, nil
}

func (f *Rendered) extractMarkup(ctx, tabCtx context.Context, target domain.Target, query string) ([]domain.RawListing, error) {
	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capture dom: %w", err)
	}
	listings, err := ListingsFromHTML(html, target.Rules, target.MaxProducts)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 && f.Fallback != nil {
		listings = f.Fallback.ExtractListings(ctx, html, target.Name, query)
		f.logger.Info("structural selectors matched nothing, used extraction fallback",
			zap.String("target", target.ID),
			zap.Int("recovered", len(listings)),
		)
	}
	return listings, nil
}

// embeddedProduct is the structured payload some storefronts attach to each
// product element. Field types are deliberately loose; the payloads are not
// under our control.
type embeddedProduct struct {
	Name         string `json:"name"`
	Price        any    `json:"price"`
	Currency     string `json:"currency"`
	Image        string `json:"image"`
	URL          string `json:"url"`
	Availability string `json:"availability"`
	Description  string `json:"description"`
}

// extractEmbedded reads the JSON blob from each container's configured
// attribute. Malformed payloads are skipped, not fatal: the page embedding
// one broken record should not discard the rest.
func (f *Rendered) extractEmbedded(ctx context.Context, target domain.Target) ([]domain.RawListing, error) {
	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.getAttribute(%q)).filter(Boolean)`,
		target.Rules.Container, target.Rules.EmbeddedJSONAttr,
	)

	var payloads []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &payloads)); err != nil {
		return nil, fmt.Errorf("read embedded payloads: %w", err)
	}

	listings := make([]domain.RawListing, 0, len(payloads))
	skipped := 0
	for _, payload := range payloads {
		if target.MaxProducts > 0 && len(listings) >= target.MaxProducts {
			break
		}
		var ep embeddedProduct
		if err := json.Unmarshal([]byte(payload), &ep); err != nil {
			skipped++
			continue
		}
		listings = append(listings, listingFromEmbedded(ep))
	}
	if skipped > 0 {
		f.logger.Warn("skipped malformed embedded payloads",
			zap.String("target", target.ID), zap.Int("skipped", skipped))
	}
	return listings, nil
}

func listingFromEmbedded(ep embeddedProduct) domain.RawListing {
	price := ""
	if ep.Price != nil {
		price = fmt.Sprintf("%s %v", ep.Currency, ep.Price)
	}
	return domain.RawListing{
		Name:         ep.Name,
		PriceText:    price,
		ImageURL:     ep.Image,
		LinkURL:      ep.URL,
		Availability: ep.Availability,
		Description:  ep.Description,
	}
}
