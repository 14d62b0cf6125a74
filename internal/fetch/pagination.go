package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"merchfinder/internal/domain"
)

const (
	// maxLoadMoreAttempts caps the click loop even when a site keeps
	// offering more pages.
	maxLoadMoreAttempts = 5

	// loadMoreWait is the fixed settle delay after each click.
	loadMoreWait = 1500 * time.Millisecond
)

// Pager abstracts the page operations the traversal loop needs, so the loop
// is testable without a browser.
type Pager interface {
	// ClickLoadMore locates and clicks the pagination control, reporting
	// false when no control is present.
	ClickLoadMore(ctx context.Context) (bool, error)
	// ProductCount reports how many product containers the page shows.
	ProductCount(ctx context.Context) (int, error)
}

// TraverseLoadMore repeatedly clicks the "load more" control until it
// disappears, the attempt ceiling is reached, or the page already shows
// productCeiling items. Returns the number of clicks issued.
func TraverseLoadMore(ctx context.Context, p Pager, maxAttempts, productCeiling int, wait time.Duration) (int, error) {
	if maxAttempts <= 0 {
		maxAttempts = maxLoadMoreAttempts
	}

	clicks := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if productCeiling > 0 {
			count, err := p.ProductCount(ctx)
			if err != nil {
				return clicks, err
			}
			if count >= productCeiling {
				break
			}
		}

		clicked, err := p.ClickLoadMore(ctx)
		if err != nil {
			return clicks, err
		}
		if !clicked {
			break
		}
		clicks++

		select {
		case <-ctx.Done():
			return clicks, ctx.Err()
		case <-time.After(wait):
		}
	}
	return clicks, nil
}

// loadMoreLocator is one strategy for finding the pagination control. Each
// builds a JS expression that clicks the control and evaluates to true, or
// evaluates to false when the strategy finds nothing. Strategies run in
// order and the first hit wins.
type loadMoreLocator struct {
	name string
	expr func(rules domain.ExtractionRules) string
}

var loadMoreLocators = []loadMoreLocator{
	{
		name: "exact selector",
		expr: func(rules domain.ExtractionRules) string {
			if rules.LoadMore == "" {
				return "false"
			}
			return clickFirstMatch(rules.LoadMore)
		},
	},
	{
		name: "class fragment",
		expr: func(domain.ExtractionRules) string {
			return clickFirstMatch(
				`button[class*="load-more"], a[class*="load-more"], button[class*="show-more"], a[class*="show-more"], button[class*="loadMore"], button[class*="showMore"]`)
		},
	},
	{
		name: "text scan",
		expr: func(domain.ExtractionRules) string {
			return `(() => {
				const el = Array.from(document.querySelectorAll('button, a'))
					.find(n => /load more|show more/i.test(n.textContent || ''));
				if (!el) return false;
				el.click();
				return true;
			})()`
		},
	},
}

func clickFirstMatch(selector string) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el || el.disabled) return false;
		el.click();
		return true;
	})()`, selector)
}

// domPager drives a live chromedp tab.
type domPager struct {
	rules domain.ExtractionRules
}

func (p *domPager) ClickLoadMore(ctx context.Context) (bool, error) {
	for _, loc := range loadMoreLocators {
		expr := loc.expr(p.rules)
		if strings.TrimSpace(expr) == "false" {
			continue
		}
		var clicked bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &clicked)); err != nil {
			return false, err
		}
		if clicked {
			return true, nil
		}
	}
	return false, nil
}

func (p *domPager) ProductCount(ctx context.Context) (int, error) {
	expr := fmt.Sprintf(`document.querySelectorAll(%q).length`, p.rules.Container)
	var count int
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &count)); err != nil {
		return 0, err
	}
	return count, nil
}
