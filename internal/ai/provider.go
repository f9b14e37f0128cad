package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mhartmann/frankenevents/internal/logger"
)

// DefaultPrompt asks for the structured record every provider must return.
const DefaultPrompt = "Extract key event details from the provided context and return ONLY JSON. " +
	"Required fields: title, description, start_time, end_time, url, category, " +
	"location (object with name, lat, lon), price. " +
	"Use ISO 8601 for times. Use null for unknown values."

// LocationInfo is the location fragment of an extraction result.
type LocationInfo struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// EventInfo is the structured record a provider extracts from free text.
// Unknown fields are empty or nil, never guessed.
type EventInfo struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	URL         string        `json:"url"`
	Category    string        `json:"category"`
	Location    *LocationInfo `json:"location"`
	Price       string        `json:"price"`
}

// Provider extracts structured event details from unstructured text.
// A non-conforming model response is an error, not a partial result;
// callers treat any error as extraction failure and fall back to
// pattern-based extraction.
type Provider interface {
	Name() string
	ExtractEventInfo(ctx context.Context, text, prompt string) (*EventInfo, error)
}

// Settings holds one provider's configuration. Which fields matter
// depends on the provider; a missing required field means the provider
// is not instantiated.
type Settings struct {
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Factory builds a provider from its settings.
type Factory func(Settings) (Provider, error)

var registry = map[string]Factory{
	"openai":     NewOpenAI,
	"groq":       NewGroq,
	"ollama":     NewOllama,
	"duckduckgo": NewDuckDuckGo,
}

// priority is the order providers are consulted in; structured backends
// before the search-snippet fallback.
var priority = []string{"openai", "groq", "ollama", "duckduckgo"}

// Available instantiates every configured provider that initializes
// cleanly, in priority order. A provider that fails to initialize is
// skipped with a log line; an empty result is a normal operating mode.
func Available(cfg map[string]Settings) []Provider {
	log := logger.Get("ai")

	var providers []Provider
	for _, name := range priority {
		settings, ok := cfg[name]
		if !ok {
			continue
		}
		factory := registry[name]
		p, err := factory(settings)
		if err != nil {
			log.Warnw("skipping provider", "provider", name, "error", err)
			continue
		}
		providers = append(providers, p)
	}
	return providers
}

// CleanJSONResponse strips markdown code fences models like to wrap
// around JSON payloads.
func CleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

// ParseEventInfo decodes a model response into an EventInfo. The record
// must at least carry a title; anything else is extraction failure.
func ParseEventInfo(raw string) (*EventInfo, error) {
	cleaned := CleanJSONResponse(raw)

	var info EventInfo
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}
	if strings.TrimSpace(info.Title) == "" {
		return nil, fmt.Errorf("extraction response has no title")
	}
	return &info, nil
}
