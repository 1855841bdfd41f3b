package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxParseAttempts = 3

// Suggester implements provider.Suggester using OpenAI-compatible chat APIs.
type Suggester struct {
	client         llms.Model
	maxSuggestions int
	logger         *slog.Logger
}

var _ provider.Suggester = (*Suggester)(nil)

// suggestion is an internal type used for JSON unmarshaling.
type suggestion struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// suggestionList is the wrapper structure for the model's JSON response.
type suggestionList struct {
	Suggestions []suggestion `json:"suggestions"`
}

// newSuggester is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSuggester(config *provider.Config, opts ...openai.Option) (*Suggester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientOpts := append([]openai.Option{
		openai.WithBaseURL(config.SuggestHost),
		openai.WithToken(config.SuggestToken),
		openai.WithModel(config.SuggestModel),
	}, opts...)

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Suggester{
		client:         client,
		maxSuggestions: config.MaxSuggestions,
		logger:         slog.Default().With("component", "openai-suggester"),
	}, nil
}

// NewSuggester creates a new suggester using the provided configuration.
// Additional langchaingo client options (for example a custom HTTP client)
// are applied after the configured host, token and model.
//
// Returns provider.Suggester interface to enforce abstraction.
func NewSuggester(config *provider.Config, opts ...openai.Option) (provider.Suggester, error) {
	return newSuggester(config, opts...)
}

// Suggest asks the model for place completions of fragment near the region center.
// At most the configured number of suggestions is returned, best first.
func (s *Suggester) Suggest(ctx context.Context, fragment string, region core.Region) ([]core.Suggestion, error) {
	fragment = scrubString(fragment)
	if fragment == "" {
		return []core.Suggestion{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(s.maxSuggestions))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildUserPrompt(fragment, region))},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result suggestionList
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate suggestions", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return []core.Suggestion{}, nil
		}

		responseText := repairJSON(stripCodeFences(response.Choices[0].Content))

		result = suggestionList{}
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing suggestion response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse suggestion response after retries", "err", lastErr)
		return nil, lastErr
	}

	suggestions := make([]core.Suggestion, 0, len(result.Suggestions))
	for _, sg := range result.Suggestions {
		title := strings.TrimSpace(sg.Title)
		if title == "" {
			continue
		}
		suggestions = append(suggestions, core.Suggestion{
			Title:    title,
			Subtitle: strings.TrimSpace(sg.Subtitle),
		})
		if len(suggestions) == s.maxSuggestions {
			break
		}
	}

	s.logger.Debug("generated suggestions",
		"fragment", fragment,
		"total", len(result.Suggestions),
		"kept", len(suggestions))
	return suggestions, nil
}
