// Package normalize turns raw scrape output into canonical Products.
package normalize

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"merchfinder/internal/domain"
)

// PricePlaceholder is shown when the raw price text could not be parsed.
const PricePlaceholder = "Price unavailable"

// Products validates and converts raw listings for one target, skipping
// entries without a usable name or link.
func Products(listings []domain.RawListing, target domain.Target) []domain.Product {
	out := make([]domain.Product, 0, len(listings))
	for _, raw := range listings {
		p, ok := Product(raw, target)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Product builds one canonical record from a raw listing. The second return
// is false when the listing lacks the minimum fields to be useful.
func Product(raw domain.RawListing, target domain.Target) (domain.Product, bool) {
	name := strings.TrimSpace(raw.Name)
	link := strings.TrimSpace(raw.LinkURL)
	if name == "" || link == "" {
		return domain.Product{}, false
	}

	absLink, err := absoluteURL(target.BaseURL, link)
	if err != nil {
		return domain.Product{}, false
	}

	image := ""
	if img := strings.TrimSpace(raw.ImageURL); img != "" {
		if abs, err := absoluteURL(target.BaseURL, img); err == nil {
			image = abs
		}
	}

	return domain.Product{
		ID:           productID(target.ID, absLink, name),
		Name:         name,
		Description:  strings.TrimSpace(raw.Description),
		URL:          absLink,
		ImageURL:     image,
		Price:        ParsePrice(raw.PriceText),
		Availability: ParseAvailability(raw.Availability),
		Source:       target.Name,
		ScrapedAt:    time.Now(),
	}, true
}

// ParsePrice extracts amount and currency from raw price text like
// "$24.99", "£ 1,299.00" or "EUR 80". Unparseable input yields a zero
// amount with a placeholder display string.
func ParsePrice(text string) domain.Price {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Price{Formatted: PricePlaceholder, Currency: "USD"}
	}

	currency := "USD"
	switch {
	case strings.ContainsAny(text, "£"), strings.Contains(text, "GBP"):
		currency = "GBP"
	case strings.ContainsAny(text, "€"), strings.Contains(text, "EUR"):
		currency = "EUR"
	}

	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	numeric := strings.ReplaceAll(b.String(), ",", "")
	numeric = strings.Trim(numeric, ".")

	amount, err := strconv.ParseFloat(numeric, 64)
	if err != nil || amount < 0 {
		return domain.Price{Formatted: PricePlaceholder, Currency: currency}
	}

	return domain.Price{
		Amount:    amount,
		Formatted: formatAmount(amount, currency),
		Currency:  currency,
	}
}

func formatAmount(amount float64, currency string) string {
	symbol := "$"
	switch currency {
	case "GBP":
		symbol = "£"
	case "EUR":
		symbol = "€"
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

// ParseAvailability maps raw stock text to the canonical status. Unknown or
// empty text is treated as in stock: listings on a search results page are
// overwhelmingly purchasable.
func ParseAvailability(text string) domain.Availability {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return domain.InStock
	case strings.Contains(t, "out of stock"),
		strings.Contains(t, "sold out"),
		strings.Contains(t, "unavailable"):
		return domain.OutOfStock
	case strings.Contains(t, "limited"),
		strings.Contains(t, "few left"),
		strings.Contains(t, "low stock"),
		strings.Contains(t, "last "):
		return domain.LimitedStock
	default:
		return domain.InStock
	}
}

// productID is source-prefixed and collision-resistant: a stable hash of
// link+name for debuggability plus a random suffix so repeated listings
// never collide.
func productID(targetID, link, name string) string {
	h := sha256.Sum256([]byte(link + "|" + name))
	suffix := make([]byte, 2)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%s-%s-%s", targetID, hex.EncodeToString(h[:6]), hex.EncodeToString(suffix))
}

// absoluteURL resolves a possibly-relative href against the target base.
func absoluteURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	resolved := baseURL.ResolveReference(refURL)
	if resolved.Host == "" {
		return "", fmt.Errorf("unresolvable url %q", ref)
	}
	return resolved.String(), nil
}
