package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freshmeal-bot/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		Enabled:     true,
		BaseURL:     baseURL,
		APIKey:      "gsk_test",
		Model:       "llama-3.1-8b-instant",
		MaxTokens:   512,
		Temperature: 0.1,
		Timeout:     time.Second,
	}
}

func TestNewClient_Disabled(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	assert.Nil(t, NewClient(cfg))

	cfg = testConfig("http://unused")
	cfg.Enabled = false
	assert.Nil(t, NewClient(cfg))
}

func TestCompleteJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.1-8b-instant", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "list", req.Messages[1].Content)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.InDelta(t, 0.1, req.Temperature, 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"message":{"role":"assistant","content":"{\"Rice\":{}}"}}],"usage":{"total_tokens":42}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL + "/openai/v1/"))
	require.NotNil(t, client)

	content, err := client.CompleteJSON(context.Background(), "Output only JSON.", "list")
	require.NoError(t, err)
	assert.Equal(t, `{"Rice":{}}`, content)
	assert.Equal(t, "llama-3.1-8b-instant", client.Model())
}

func TestCompleteJSON_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"not json", http.StatusOK, `<html></html>`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(testConfig(server.URL)).CompleteJSON(context.Background(), "s", "u")
			assert.Error(t, err)
		})
	}
}

func TestCompleteJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewClient(cfg).CompleteJSON(context.Background(), "s", "u")
	assert.Error(t, err)
}
