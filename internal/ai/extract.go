package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"merchfinder/internal/domain"
)

// markupBudget caps how much reduced markup goes into the extraction
// prompt; anything beyond it rarely carries additional product tiles.
const markupBudget = 15000

// containerPatterns are class/attribute shapes commonly used for product
// tiles, tried before falling back to whole-page stripping.
var containerPatterns = []string{
	"[data-product]",
	"div[class*='product-card']",
	"div[class*='product-item']",
	"div[class*='product-tile']",
	"li[class*='product']",
	"article[class*='product']",
	"div[class*='item-card']",
}

const extractionPrompt = `You are a product data extraction system. The following HTML fragments come from an e-commerce search results page on %q for the query %q.

Extract every distinct product listing. For each, identify:
- name: the product title text
- price: the price text exactly as shown (e.g. "$29.99")
- image_url: the product image URL or path
- link_url: the product page URL or path
- availability: stock text if shown, else ""
- description: a short descriptive line if shown, else ""

Respond with a single JSON object of the form {"products": [...]} where each array element has exactly those six string keys. Do not include any text outside the JSON object.

HTML:
%s`

type extractionResponse struct {
	Products []struct {
		Name         string `json:"name"`
		Price        string `json:"price"`
		ImageURL     string `json:"image_url"`
		LinkURL      string `json:"link_url"`
		Availability string `json:"availability"`
		Description  string `json:"description"`
	} `json:"products"`
}

// Extractor adapts the extraction fallback to the fetch layer's
// FallbackExtractor seam.
type Extractor struct {
	Client Client
}

func (e *Extractor) ExtractListings(ctx context.Context, pageMarkup, sourceName, query string) []domain.RawListing {
	return ExtractListings(ctx, e.Client, pageMarkup, sourceName, query)
}

// ExtractListings is the last-resort extraction path for pages whose
// structural selectors yielded nothing. It never fails: any internal error
// degrades to an empty result, and its output flows through the same
// normalization as structural extraction.
func ExtractListings(ctx context.Context, client Client, pageMarkup, sourceName, query string) []domain.RawListing {
	if client == nil || strings.TrimSpace(pageMarkup) == "" {
		return nil
	}

	reduced := ReduceMarkup(pageMarkup)
	if reduced == "" {
		return nil
	}

	text, err := client.Complete(ctx, fmt.Sprintf(extractionPrompt, sourceName, query, reduced))
	if err != nil {
		return nil
	}

	raw, ok := extractJSON(text)
	if !ok {
		return nil
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	listings := make([]domain.RawListing, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		listings = append(listings, domain.RawListing{
			Name:         p.Name,
			PriceText:    p.Price,
			ImageURL:     p.ImageURL,
			LinkURL:      p.LinkURL,
			Availability: p.Availability,
			Description:  p.Description,
		})
	}
	return listings
}

// ReduceMarkup shrinks a full page to product-relevant fragments. Container
// patterns are tried first; when none match, the page is stripped of
// non-content tags and truncated to the markup budget.
func ReduceMarkup(pageMarkup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageMarkup))
	if err != nil {
		return truncate(pageMarkup, markupBudget)
	}

	for _, pattern := range containerPatterns {
		matches := doc.Find(pattern)
		if matches.Length() == 0 {
			continue
		}
		var sb strings.Builder
		matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
			fragment, err := goquery.OuterHtml(s)
			if err != nil {
				return true
			}
			if sb.Len()+len(fragment) > markupBudget {
				return false
			}
			sb.WriteString(fragment)
			sb.WriteString("\n")
			return true
		})
		if sb.Len() > 0 {
			return sb.String()
		}
	}

	doc.Find("script, style, meta, link, noscript, svg").Remove()
	body, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(body) == "" {
		return ""
	}
	return truncate(body, markupBudget)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
