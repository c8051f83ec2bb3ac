package nutrition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freshmeal-bot/internal/core/ai"
	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
	prompts []string
	ctxErr  error
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, user)
	f.ctxErr = ctx.Err()
	return f.content, f.err
}

func (f *fakeCompleter) Model() string { return "fake" }

func TestEnrich_ParsesBatch(t *testing.T) {
	fc := &fakeCompleter{content: `{
		"Rice": {"kcal": 300, "carbs": 65, "protein": 6, "fat": 1},
		"Kimchi": {"kcal": "15", "carbs": 3.7, "protein": "1g", "fat": -2},
		"Extra": {"kcal": 999}
	}`}
	e := NewEnricher(fc)

	got := e.Enrich(context.Background(), []string{"Rice", " Kimchi ", "Rice", "", "Soup"})

	require.True(t, got.Available())
	assert.Equal(t, 1, fc.calls, "one request per batch")
	assert.Equal(t, Map{
		"Rice":   {Kcal: 300, Carbs: 65, Protein: 6, Fat: 1},
		"Kimchi": {Kcal: 15, Carbs: 3, Protein: 0, Fat: 0},
	}, got.Facts())

	prompt := fc.prompts[0]
	assert.Contains(t, prompt, "Menu List: [Rice, Kimchi, Soup]")
	assert.Equal(t, 1, strings.Count(prompt, "Rice, Kimchi"))
}

func TestEnrich_ToleratesBadEntries(t *testing.T) {
	fc := &fakeCompleter{content: `{"Rice": "lots", "Soup": {"kcal": null, "fat": true}, " Egg ": {"kcal": 80}}`}

	got := NewEnricher(fc).Enrich(context.Background(), []string{"Rice", "Soup", "Egg"})

	require.True(t, got.Available())
	assert.Equal(t, Map{"Soup": {}, "Egg": {Kcal: 80}}, got.Facts())
}

func TestEnrich_Unavailable(t *testing.T) {
	tests := []struct {
		name     string
		enricher *Enricher
		names    []string
	}{
		{"nil enricher", nil, []string{"Rice"}},
		{"no completer", NewEnricher(nil), []string{"Rice"}},
		{"empty input", NewEnricher(&fakeCompleter{content: `{"Rice":{}}`}), nil},
		{"blank input", NewEnricher(&fakeCompleter{content: `{"Rice":{}}`}), []string{" ", ""}},
		{"transport error", NewEnricher(&fakeCompleter{err: errors.New("timeout")}), []string{"Rice"}},
		{"not json", NewEnricher(&fakeCompleter{content: "Sure! Here is the JSON"}), []string{"Rice"}},
		{"markdown fenced", NewEnricher(&fakeCompleter{content: "```json\n{\"Rice\":{\"kcal\":1}}\n```"}), []string{"Rice"}},
		{"json array", NewEnricher(&fakeCompleter{content: `[{"Rice":{}}]`}), []string{"Rice"}},
		{"json null", NewEnricher(&fakeCompleter{content: `null`}), []string{"Rice"}},
		{"no requested names", NewEnricher(&fakeCompleter{content: `{"Bread":{"kcal":1}}`}), []string{"Rice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Enrichment
			assert.NotPanics(t, func() {
				got = tt.enricher.Enrich(context.Background(), tt.names)
			})
			assert.False(t, got.Available())
			assert.Empty(t, got.Facts())
			assert.ErrorIs(t, got.Reason(), common.ErrEnrichmentUnavailable)
		})
	}
}

func TestEnrich_IgnoresCallerCancellation(t *testing.T) {
	fc := &fakeCompleter{content: `{"Rice":{"kcal":1}}`}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewEnricher(fc).Enrich(ctx, []string{"Rice"})

	assert.True(t, got.Available())
	assert.NoError(t, fc.ctxErr)
}

func TestEnrich_WithClient(t *testing.T) {
	t.Run("malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"Rice\": {\"kcal\": 3"}}]}`))
		}))
		defer server.Close()

		got := NewEnricher(newClient(t, server.URL, time.Second)).Enrich(context.Background(), []string{"Rice"})
		assert.False(t, got.Available())
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		got := NewEnricher(newClient(t, server.URL, 50*time.Millisecond)).Enrich(context.Background(), []string{"Rice"})
		assert.False(t, got.Available())
	})

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"Rice\": {\"kcal\": 300, \"carbs\": 65, \"protein\": 6, \"fat\": 1}}"}}]}`))
		}))
		defer server.Close()

		got := NewEnricher(newClient(t, server.URL, time.Second)).Enrich(context.Background(), []string{"Rice"})
		require.True(t, got.Available())
		assert.Equal(t, Facts{Kcal: 300, Carbs: 65, Protein: 6, Fat: 1}, got.Facts()["Rice"])
	})
}

func newClient(t *testing.T, baseURL string, timeout time.Duration) *ai.Client {
	t.Helper()
	client := ai.NewClient(config.AIConfig{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "gsk_test",
		Model:   "test-model",
		Timeout: timeout,
	})
	require.NotNil(t, client)
	return client
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 12, toInt("12.9"))
	assert.Equal(t, 0, toInt("twelve"))
	assert.Equal(t, 0, toInt([]any{1}))
	assert.Equal(t, 7, toInt(float64(7.2)))
	assert.Equal(t, 0, toInt(float64(-1)))
	assert.Equal(t, 0, toInt("NaN"))
	assert.Equal(t, 0, toInt("-Inf"))
}

func TestParseFacts_LeadingZeros(t *testing.T) {
	facts, err := parseFacts(`{"Rice":{"kcal":"0300","carbs":"010","protein":"08","fat":"0x10"},"Soup":{"kcal":"712.5"}}`, []string{"Rice", "Soup"})

	require.NoError(t, err)
	assert.Equal(t, Facts{Kcal: 300, Carbs: 10, Protein: 8, Fat: 0}, facts["Rice"])
	assert.Equal(t, Facts{Kcal: 712}, facts["Soup"])
}
