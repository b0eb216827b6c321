package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RESTClient is the secondary transport. It builds the request body as
// loose JSON and walks the response generically, so it keeps working
// even when the API grows fields the typed client does not know.
type RESTClient struct {
	cfg  Config
	http *http.Client
}

// NewRESTClient builds the secondary transport.
func NewRESTClient(cfg Config) *RESTClient {
	return &RESTClient{cfg: cfg, http: cfg.httpClient()}
}

// Generate posts the prompt and extracts candidate text from the raw
// response document.
func (c *RESTClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     c.cfg.Temperature,
			"topP":            c.cfg.TopP,
			"maxOutputTokens": c.cfg.MaxOutputTokens,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.url(), bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generate endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := extractText(doc)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// extractText concatenates candidates[].content.parts[].text from a
// generic response document.
func extractText(doc map[string]any) string {
	candidates, _ := doc["candidates"].([]any)
	var b strings.Builder
	for _, c := range candidates {
		cand, _ := c.(map[string]any)
		content, _ := cand["content"].(map[string]any)
		parts, _ := content["parts"].([]any)
		for _, p := range parts {
			part, _ := p.(map[string]any)
			if text, ok := part["text"].(string); ok {
				b.WriteString(text)
			}
		}
	}
	return b.String()
}
