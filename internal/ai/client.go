// Package ai talks to the text-generation collaborator. Every caller has a
// deterministic fallback: the collaborator is best-effort, never required
// for a search to complete.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client abstracts the collaborator so tests can supply a mock and so the
// whole capability can be absent (nil) at runtime.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// apiURL is package-level for test substitution.
var apiURL = "https://api.anthropic.com/v1/messages"

// HTTPClient calls an Anthropic-messages-shaped endpoint.
type HTTPClient struct {
	apiKey string
	model  string
	client *http.Client
}

// NewHTTPClient builds the collaborator client. Returns nil when no API key
// is configured; callers treat a nil Client as "capability unavailable".
func NewHTTPClient(endpoint, apiKey, model string) *HTTPClient {
	if apiKey == "" {
		return nil
	}
	if endpoint != "" {
		apiURL = endpoint
	}
	return &HTTPClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one prompt and returns the concatenated text blocks.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 2048,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("collaborator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("collaborator returned status %d", resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("collaborator returned no text")
	}
	return sb.String(), nil
}

// Instrument wraps client so the outcome of every Complete call is reported
// through observe. A nil client stays nil so callers keep their
// capability-absent behavior.
func Instrument(client Client, observe func(err error)) Client {
	if client == nil {
		return nil
	}
	return &instrumentedClient{inner: client, observe: observe}
}

type instrumentedClient struct {
	inner   Client
	observe func(err error)
}

func (c *instrumentedClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.inner.Complete(ctx, prompt)
	c.observe(err)
	return text, err
}

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating code fences and prose around it.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
