package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama-3.3-70b-versatile"
)

// GroqProvider implements Client against the Groq API, which is
// OpenAI-compatible.
type GroqProvider struct {
	chat chatClient
}

// NewGroqProvider creates a new Groq provider instance
func NewGroqProvider(cfg *Config) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeProviderConfig, "groq API key is not set").
			WithSuggestion("Set the GROQ_API_KEY environment variable")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = groqDefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &GroqProvider{
		chat: chatClient{
			name:    "groq",
			apiKey:  cfg.APIKey,
			baseURL: baseURL,
			model:   model,
			client:  &http.Client{Timeout: timeout},
		},
	}, nil
}

// Generate implements Client.Generate
func (p *GroqProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return p.chat.generate(ctx, req)
}

// Info implements Client.Info
func (p *GroqProvider) Info() *Info {
	return &Info{
		Name:    "groq",
		Model:   p.chat.model,
		BaseURL: p.chat.baseURL,
	}
}

// IsAvailable implements Client.IsAvailable
func (p *GroqProvider) IsAvailable() bool {
	return p.chat.apiKey != ""
}

// Health implements Client.Health
func (p *GroqProvider) Health(ctx context.Context) error {
	return p.chat.health(ctx)
}

// Close implements Client.Close
func (p *GroqProvider) Close() error {
	p.chat.client.CloseIdleConnections()
	return nil
}
