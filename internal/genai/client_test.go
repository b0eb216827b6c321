package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, parts ...string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		assert.Contains(t, req, "contents")
		assert.Contains(t, req, "generationConfig")

		var candidates []map[string]any
		for _, text := range parts {
			candidates = append(candidates, map[string]any{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": candidates})
	}
}

func testConfig(url string) Config {
	return Config{
		APIKey:          "secret",
		Model:           "gemini-1.5-flash",
		Endpoint:        url,
		Temperature:     0.2,
		TopP:            0.9,
		MaxOutputTokens: 1024,
	}
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(respondWith(t, "hello ", "world"))
	defer srv.Close()

	got, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestRESTClientGenerate(t *testing.T) {
	srv := httptest.NewServer(respondWith(t, "secondary ", "transport"))
	defer srv.Close()

	got, err := NewRESTClient(testConfig(srv.URL)).Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "secondary transport", got)
}

func TestGenerateNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	_, err = NewRESTClient(testConfig(srv.URL)).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateEmptyCandidatesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewRESTClient(testConfig(srv.URL)).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(respondWith(t, "never"))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(testConfig(srv.URL)).Generate(ctx, "p")
	assert.Error(t, err)
}
