package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer returns an OpenAI-compatible endpoint answering with the given
// contents in order; the last one repeats.
func chatServer(t *testing.T, contents ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		content := contents[len(contents)-1]
		if n <= len(contents) {
			content = contents[n-1]
		}
		body := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func suggesterConfig(host string) *provider.Config {
	return provider.NewConfig(
		provider.WithSuggestHost(host),
		provider.WithSuggestModel("test-model"),
	)
}

var testRegion = core.Region{
	Center:         core.Coordinate{Latitude: 37.7749, Longitude: -122.4194},
	LatitudeDelta:  0.1,
	LongitudeDelta: 0.1,
}

func TestSuggester_Suggest(t *testing.T) {
	t.Run("parses suggestions", func(t *testing.T) {
		server, calls := chatServer(t, `{"suggestions":[{"title":"Blue Bottle Coffee","subtitle":"San Francisco, CA"},{"title":"Blue Barn","subtitle":""}]}`)

		s, err := newSuggester(suggesterConfig(server.URL))
		require.NoError(t, err)

		got, err := s.Suggest(context.Background(), "blue b", testRegion)
		require.NoError(t, err)
		assert.Equal(t, []core.Suggestion{
			{Title: "Blue Bottle Coffee", Subtitle: "San Francisco, CA"},
			{Title: "Blue Barn"},
		}, got)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("repairs fenced output with trailing commas", func(t *testing.T) {
		server, _ := chatServer(t, "```json\n{\"suggestions\":[{\"title\":\"Apple Store\",\"subtitle\":\"Palo Alto, CA\"},]}\n```")

		s, err := newSuggester(suggesterConfig(server.URL))
		require.NoError(t, err)

		got, err := s.Suggest(context.Background(), "app", testRegion)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Apple Store", got[0].Title)
	})

	t.Run("retries malformed output", func(t *testing.T) {
		server, calls := chatServer(t, `not json at all`, `{"suggestions":[{"title":"Banana Stand","subtitle":"Newport Beach, CA"}]}`)

		s, err := newSuggester(suggesterConfig(server.URL))
		require.NoError(t, err)

		got, err := s.Suggest(context.Background(), "ban", testRegion)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Banana Stand", got[0].Title)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("gives up after repeated malformed output", func(t *testing.T) {
		server, calls := chatServer(t, `not json at all`)

		s, err := newSuggester(suggesterConfig(server.URL))
		require.NoError(t, err)

		_, err = s.Suggest(context.Background(), "ban", testRegion)
		require.Error(t, err)
		assert.Equal(t, int32(maxParseAttempts), calls.Load())
	})

	t.Run("truncates to max suggestions and skips blank titles", func(t *testing.T) {
		server, _ := chatServer(t, `{"suggestions":[{"title":"A1","subtitle":""},{"title":"  ","subtitle":""},{"title":"A2","subtitle":""},{"title":"A3","subtitle":""}]}`)

		cfg := suggesterConfig(server.URL)
		cfg.MaxSuggestions = 2
		s, err := newSuggester(cfg)
		require.NoError(t, err)

		got, err := s.Suggest(context.Background(), "a", testRegion)
		require.NoError(t, err)
		assert.Equal(t, []core.Suggestion{{Title: "A1"}, {Title: "A2"}}, got)
	})

	t.Run("empty fragment makes no request", func(t *testing.T) {
		server, calls := chatServer(t, `{"suggestions":[]}`)

		s, err := newSuggester(suggesterConfig(server.URL))
		require.NoError(t, err)

		got, err := s.Suggest(context.Background(), "  \"\" ", testRegion)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestNewSuggester_InvalidConfig(t *testing.T) {
	cfg := provider.NewConfig(provider.WithSuggestHost("http://localhost:11434"))
	_, err := NewSuggester(cfg)
	require.Error(t, err, "missing model should be rejected")
}
