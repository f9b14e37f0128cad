package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOllamaModel = "llama3.2"

// Ollama extracts event details through a local Ollama instance.
type Ollama struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllama creates the Ollama-backed provider. The endpoint is required;
// there is no sane default to probe for at startup.
func NewOllama(settings Settings) (Provider, error) {
	if settings.Endpoint == "" {
		return nil, fmt.Errorf("ollama: endpoint is required")
	}
	model := settings.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{
		endpoint: settings.Endpoint,
		model:    model,
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// ExtractEventInfo runs one generate call in JSON mode and decodes the
// structured response.
func (o *Ollama) ExtractEventInfo(ctx context.Context, text, prompt string) (*EventInfo, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: prompt + "\n\nContext:\n" + text,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var or ollamaResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}

	return ParseEventInfo(or.Response)
}
