package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchfinder/internal/domain"
)

// scriptedClient returns a fixed response or error.
type scriptedClient struct {
	response string
	err      error
	prompts  []string
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func TestExtractIntent(t *testing.T) {
	client := &scriptedClient{response: `{"item":"cap","team":"Red Bull","driver":"","category":"headwear","budget":50}`}

	intent := ExtractIntent(context.Background(), client, "red bull cap under 50")
	assert.Equal(t, "cap", intent.Item)
	assert.Equal(t, "Red Bull", intent.Team)
	assert.Equal(t, 50.0, intent.Budget)
}

func TestExtractIntentToleratesFencedJSON(t *testing.T) {
	client := &scriptedClient{response: "```json\n{\"item\":\"mug\",\"team\":\"\",\"driver\":\"\",\"category\":\"\",\"budget\":0}\n```"}

	intent := ExtractIntent(context.Background(), client, "f1 mug")
	assert.Equal(t, "mug", intent.Item)
}

func TestExtractIntentDegradesToZero(t *testing.T) {
	assert.True(t, ExtractIntent(context.Background(), nil, "q").IsZero())

	failing := &scriptedClient{err: errors.New("unreachable")}
	assert.True(t, ExtractIntent(context.Background(), failing, "q").IsZero())

	garbage := &scriptedClient{response: "sorry, I cannot help with that"}
	assert.True(t, ExtractIntent(context.Background(), garbage, "q").IsZero())
}

func TestBuildSearchQuery(t *testing.T) {
	intent := domain.Intent{Team: "Red Bull", Driver: "Verstappen", Item: "cap", Category: "headwear"}
	assert.Equal(t, "Formula 1 F1 Red Bull Verstappen cap headwear", BuildSearchQuery(intent, "ignored"))

	// Zero intent falls back to the raw query.
	assert.Equal(t, "red bull cap", BuildSearchQuery(domain.Intent{}, "  red bull cap "))
}

func TestExtractListings(t *testing.T) {
	client := &scriptedClient{response: `{"products":[
		{"name":"RB Cap","price":"$29.99","image_url":"/i/cap.jpg","link_url":"/p/cap","availability":"","description":""},
		{"name":"RB Tee","price":"$39.99","image_url":"","link_url":"/p/tee","availability":"sold out","description":"team tee"}
	]}`}

	markup := `<html><body><div class="product-card">stub</div></body></html>`
	listings := ExtractListings(context.Background(), client, markup, "Test Store", "red bull")
	require.Len(t, listings, 2)
	assert.Equal(t, "RB Cap", listings[0].Name)
	assert.Equal(t, "$39.99", listings[1].PriceText)
	assert.Equal(t, "sold out", listings[1].Availability)
}

func TestExtractListingsInvalidJSONReturnsEmpty(t *testing.T) {
	client := &scriptedClient{response: `{"products": [ broken`}

	listings := ExtractListings(context.Background(), client, "<html><body><p>x</p></body></html>", "s", "q")
	assert.Empty(t, listings)
}

func TestExtractListingsNilClientReturnsEmpty(t *testing.T) {
	assert.Nil(t, ExtractListings(context.Background(), nil, "<html></html>", "s", "q"))
}

func TestReduceMarkupPrefersContainers(t *testing.T) {
	page := `<html><head><script>tracking()</script></head><body>
		<nav>huge nav</nav>
		<div class="product-card-wide"><span>RB Cap</span></div>
		<footer>footer</footer>
	</body></html>`

	reduced := ReduceMarkup(page)
	assert.Contains(t, reduced, "RB Cap")
	assert.NotContains(t, reduced, "huge nav")
}

func TestReduceMarkupFallbackStripsNoise(t *testing.T) {
	page := `<html><head><script>evil()</script><style>.x{}</style></head><body><p>plain content</p></body></html>`

	reduced := ReduceMarkup(page)
	assert.Contains(t, reduced, "plain content")
	assert.NotContains(t, reduced, "evil()")
	assert.NotContains(t, reduced, ".x{}")
}

func TestReduceMarkupTruncates(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("a", markupBudget*2) + "</p></body></html>"
	assert.LessOrEqual(t, len(ReduceMarkup(page)), markupBudget)
}

func TestGenerateSummaryFallbacks(t *testing.T) {
	products := []domain.Product{{Name: "Cap", Price: domain.Price{Formatted: "$20.00"}, Source: "A"}}

	got := GenerateSummary(context.Background(), nil, "red bull cap", products, []string{"A"})
	assert.Contains(t, got, "Found 1 Formula 1 product")
	assert.Contains(t, got, "A")

	got = GenerateSummary(context.Background(), nil, "unicorn livery", nil, nil)
	assert.Contains(t, got, "No Formula 1 products found")

	failing := &scriptedClient{err: errors.New("down")}
	got = GenerateSummary(context.Background(), failing, "cap", products, []string{"A"})
	assert.Contains(t, got, "Found 1")
}

func TestHTTPClientComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"hello "},{"type":"text","text":"world"}]}`))
	}))
	defer ts.Close()

	oldURL := apiURL
	defer func() { apiURL = oldURL }()

	client := NewHTTPClient(ts.URL, "test-key", "test-model")
	require.NotNil(t, client)

	got, err := client.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestHTTPClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	oldURL := apiURL
	defer func() { apiURL = oldURL }()

	client := NewHTTPClient(ts.URL, "test-key", "test-model")
	_, err := client.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestNewHTTPClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewHTTPClient("", "", "model"))
}
