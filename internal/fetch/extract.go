package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"merchfinder/internal/domain"
)

// ListingsFromHTML parses a results page and applies the target's extraction
// rules per matched container, capped at max listings (0 means no cap).
func ListingsFromHTML(html string, rules domain.ExtractionRules, max int) ([]domain.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var listings []domain.RawListing
	doc.Find(rules.Container).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if max > 0 && len(listings) >= max {
			return false
		}
		listings = append(listings, ListingFromSelection(s, rules))
		return true
	})
	return listings, nil
}

// ListingFromSelection applies extraction rules inside one product container.
func ListingFromSelection(s *goquery.Selection, rules domain.ExtractionRules) domain.RawListing {
	return domain.RawListing{
		Name:         selectionText(s, rules.Name),
		PriceText:    selectionText(s, rules.Price),
		ImageURL:     imageSource(s, rules.Image),
		LinkURL:      linkHref(s, rules.Link),
		Availability: selectionText(s, rules.Availability),
		Description:  selectionText(s, rules.Description),
	}
}

func selectionText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

func linkHref(s *goquery.Selection, selector string) string {
	var sel *goquery.Selection
	if selector != "" {
		sel = s.Find(selector).First()
	} else {
		sel = s.Find("a").First()
	}
	if href, ok := sel.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	// The container itself may be the anchor.
	if href, ok := s.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}

func imageSource(s *goquery.Selection, selector string) string {
	if selector == "" {
		selector = "img"
	}
	img := s.Find(selector).First()
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
