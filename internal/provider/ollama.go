package provider

import (
	"context"
	"net/http"
	"time"
)

const (
	// Ollama exposes an OpenAI-compatible API under /v1.
	ollamaBaseURL      = "http://localhost:11434/v1"
	ollamaDefaultModel = "llama3.1:8b"
)

// OllamaProvider implements Client against a local Ollama server.
// It requires no API key, which makes it the zero-config option for
// offline development.
type OllamaProvider struct {
	chat chatClient
}

// NewOllamaProvider creates a new Ollama provider instance
func NewOllamaProvider(cfg *Config) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ollamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = ollamaDefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		// Local inference is slower than hosted APIs.
		timeout = 300 * time.Second
	}

	return &OllamaProvider{
		chat: chatClient{
			name:    "ollama",
			apiKey:  cfg.APIKey,
			baseURL: baseURL,
			model:   model,
			client:  &http.Client{Timeout: timeout},
		},
	}, nil
}

// Generate implements Client.Generate
func (p *OllamaProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return p.chat.generate(ctx, req)
}

// Info implements Client.Info
func (p *OllamaProvider) Info() *Info {
	return &Info{
		Name:    "ollama",
		Model:   p.chat.model,
		BaseURL: p.chat.baseURL,
	}
}

// IsAvailable implements Client.IsAvailable
func (p *OllamaProvider) IsAvailable() bool {
	return true
}

// Health implements Client.Health
func (p *OllamaProvider) Health(ctx context.Context) error {
	return p.chat.health(ctx)
}

// Close implements Client.Close
func (p *OllamaProvider) Close() error {
	p.chat.client.CloseIdleConnections()
	return nil
}
