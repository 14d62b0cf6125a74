package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"merchfinder/internal/domain"
)

const intentPrompt = `You are a shopping query parser for Formula 1 merchandise. Extract structured intent from the user's query.

Identify:
- item: the merchandise type being sought (e.g. "cap", "t-shirt", "mug", "model car")
- team: an F1 team name if mentioned (e.g. "Red Bull", "Ferrari", "McLaren")
- driver: a driver name if mentioned (e.g. "Verstappen", "Hamilton")
- category: a broad grouping ("clothing", "headwear", "accessories", "collectibles")
- budget: a maximum price in the query's currency as a number, 0 if none stated

Respond with a single JSON object containing exactly those five keys. Omit no keys; use "" or 0 for absent values. Do not include any text outside the JSON object.

Query: %q`

// ExtractIntent asks the collaborator to interpret the query. Best-effort:
// any failure (nil client, transport error, unparseable output) yields a
// zero Intent and the caller proceeds with the raw query text.
func ExtractIntent(ctx context.Context, client Client, query string) domain.Intent {
	if client == nil {
		return domain.Intent{}
	}

	text, err := client.Complete(ctx, fmt.Sprintf(intentPrompt, query))
	if err != nil {
		return domain.Intent{}
	}

	raw, ok := extractJSON(text)
	if !ok {
		return domain.Intent{}
	}

	var intent domain.Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return domain.Intent{}
	}
	if intent.Budget < 0 {
		intent.Budget = 0
	}
	return intent
}

// BuildSearchQuery folds intent fields into the search string sent to every
// target. Fetchers treat the result as an opaque query parameter.
func BuildSearchQuery(intent domain.Intent, rawQuery string) string {
	if intent.IsZero() {
		return strings.TrimSpace(rawQuery)
	}

	parts := []string{"Formula 1 F1"}
	for _, p := range []string{intent.Team, intent.Driver, intent.Item, intent.Category} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
