// Package consolidate merges per-target outcomes into one deduplicated,
// ranked product list.
package consolidate

import (
	"sort"
	"strings"

	"merchfinder/internal/domain"
)

// Options controls one consolidation pass.
type Options struct {
	// Query is the search string used for relevance scoring.
	Query string

	// Intent drives the optional filtering stage when ApplyFilter is set.
	Intent domain.Intent

	// ApplyFilter enables intent-based filtering. Bypassing it never
	// skips deduplication or ranking.
	ApplyFilter bool

	// MaxResults truncates the final list; <=0 means no truncation.
	MaxResults int
}

// Consolidate runs the pipeline: priority ordering, optional intent filter,
// deduplication, relevance ranking, truncation. Returns the final products
// and the pre-truncation candidate count.
func Consolidate(outcomes []domain.ScrapeOutcome, opts Options) ([]domain.Product, int) {
	// The orchestrator's fan-in does not preserve target order, so sort by
	// priority first: it decides which duplicate survives.
	ordered := make([]domain.ScrapeOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var candidates []domain.Product
	for _, oc := range ordered {
		if !oc.Success {
			continue
		}
		candidates = append(candidates, oc.Products...)
	}

	if opts.ApplyFilter {
		candidates = filterByIntent(candidates, opts.Intent)
	}
	candidates = Deduplicate(candidates)
	candidates = Rank(candidates, opts.Query)

	total := len(candidates)
	if opts.MaxResults > 0 && len(candidates) > opts.MaxResults {
		candidates = candidates[:opts.MaxResults]
	}
	return candidates, total
}

// itemSynonyms lets a generic intent token match the specific product words
// merchants actually use.
var itemSynonyms = map[string][]string{
	"clothing": {"shirt", "t-shirt", "tee", "jacket", "polo", "hoodie", "top"},
	"headwear": {"cap", "hat", "beanie"},
	"cap":      {"cap", "hat"},
	"shirt":    {"shirt", "t-shirt", "tee", "polo"},
}

// filterByIntent drops products that fail the intent's team/driver/item
// tokens or exceed its budget. Products with an unparsed price pass the
// budget check; hiding results over a parsing defect is worse than showing
// an unpriced item.
func filterByIntent(products []domain.Product, intent domain.Intent) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		text := strings.ToLower(p.Name + " " + p.Description + " " + p.Brand)

		if intent.Team != "" && !strings.Contains(text, strings.ToLower(intent.Team)) {
			continue
		}
		if intent.Driver != "" && !strings.Contains(text, strings.ToLower(intent.Driver)) {
			continue
		}
		if intent.Item != "" && !itemMatches(text, intent.Item) {
			continue
		}
		if intent.Budget > 0 && p.Price.Amount > intent.Budget {
			continue
		}
		out = append(out, p)
	}
	return out
}

func itemMatches(text, item string) bool {
	item = strings.ToLower(item)
	if strings.Contains(text, item) {
		return true
	}
	for _, syn := range itemSynonyms[item] {
		if strings.Contains(text, syn) {
			return true
		}
	}
	return false
}

// Deduplicate keeps the first product per normalized-name key, in input
// order. Callers wanting priority to decide the survivor must order the
// input by priority first.
func Deduplicate(products []domain.Product) []domain.Product {
	seen := make(map[string]bool, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		key := NormalizeKey(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// NormalizeKey lowercases a name and strips everything non-alphanumeric, so
// "Red Bull Cap" and "red bull cap!!" collapse to one key.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rank stable-sorts products by descending relevance to the query; equal
// scores preserve prior relative order.
func Rank(products []domain.Product, query string) []domain.Product {
	type scored struct {
		product domain.Product
		score   float64
	}
	pairs := make([]scored, len(products))
	for i, p := range products {
		pairs[i] = scored{product: p, score: Score(p, query)}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})
	out := make([]domain.Product, len(pairs))
	for i, pair := range pairs {
		out[i] = pair.product
	}
	return out
}

// Score computes relevance: 3 points per query token in the name, 1 per
// token anywhere in name+description+brand, plus 0.5 for in-stock items.
// Tokens shorter than 2 characters are ignored.
func Score(p domain.Product, query string) float64 {
	name := strings.ToLower(p.Name)
	all := strings.ToLower(p.Name + " " + p.Description + " " + p.Brand)

	var score float64
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if len(token) < 2 {
			continue
		}
		if strings.Contains(name, token) {
			score += 3
		}
		if strings.Contains(all, token) {
			score++
		}
	}
	if p.Availability == domain.InStock {
		score += 0.5
	}
	return score
}
