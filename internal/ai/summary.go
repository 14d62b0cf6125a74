package ai

import (
	"context"
	"fmt"
	"strings"

	"merchfinder/internal/domain"
)

const summaryPrompt = `You are a shopping assistant for Formula 1 merchandise. Write a short, friendly summary (2-3 sentences) of these search results for the query %q. Mention the number of products, the price range, and which shops they come from. Plain prose only, no markdown.

Results:
%s

Sources: %s`

// summaryMaxProducts bounds how many listings go into the prompt.
const summaryMaxProducts = 12

// GenerateSummary produces a prose summary of a result set. On any failure
// the templated fallback is returned instead; a search never fails over
// prose.
func GenerateSummary(ctx context.Context, client Client, query string, products []domain.Product, sources []string) string {
	if client == nil || len(products) == 0 {
		return FallbackSummary(query, len(products), sources)
	}

	var sb strings.Builder
	for i, p := range products {
		if i >= summaryMaxProducts {
			break
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)\n", p.Name, p.Price.Formatted, p.Source)
	}

	text, err := client.Complete(ctx, fmt.Sprintf(summaryPrompt, query, sb.String(), strings.Join(sources, ", ")))
	if err != nil || strings.TrimSpace(text) == "" {
		return FallbackSummary(query, len(products), sources)
	}
	return strings.TrimSpace(text)
}

// FallbackSummary is the deterministic summary used when the collaborator
// is unavailable or fails.
func FallbackSummary(query string, count int, sources []string) string {
	if count == 0 {
		return fmt.Sprintf("No Formula 1 products found for %q. Try a broader search term.", query)
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	sourceList := "your configured sources"
	if len(sources) > 0 {
		sourceList = strings.Join(sources, ", ")
	}
	return fmt.Sprintf("Found %d Formula 1 product%s for %q across %s.", count, plural, query, sourceList)
}
