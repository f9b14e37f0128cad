package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.1-8b-instant"
	groqBaseURL        = "https://api.groq.com/openai/v1"

	extractionTemperature = 0.1
	extractionMaxTokens   = 1000
)

// OpenAI extracts event details through an OpenAI-compatible chat API.
// The same implementation backs both OpenAI and Groq; they differ only
// in base URL and default model.
type OpenAI struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAI creates the OpenAI-backed provider.
func NewOpenAI(settings Settings) (Provider, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	model := settings.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		name:   "openai",
		client: openai.NewClient(settings.APIKey),
		model:  model,
	}, nil
}

// NewGroq creates a provider against Groq's OpenAI-compatible endpoint.
func NewGroq(settings Settings) (Provider, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("groq: api_key is required")
	}
	cfg := openai.DefaultConfig(settings.APIKey)
	cfg.BaseURL = groqBaseURL
	if settings.Endpoint != "" {
		cfg.BaseURL = settings.Endpoint
	}
	model := settings.Model
	if model == "" {
		model = defaultGroqModel
	}
	return &OpenAI{
		name:   "groq",
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (o *OpenAI) Name() string { return o.name }

// ExtractEventInfo sends the text through the chat API and decodes the
// structured response.
func (o *OpenAI) ExtractEventInfo(ctx context.Context, text, prompt string) (*EventInfo, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", o.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", o.name)
	}

	return ParseEventInfo(resp.Choices[0].Message.Content)
}
