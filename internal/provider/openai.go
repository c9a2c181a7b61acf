package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIProvider implements Client against the OpenAI API.
type OpenAIProvider struct {
	chat chatClient
}

// NewOpenAIProvider creates a new OpenAI provider instance
func NewOpenAIProvider(cfg *Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeProviderConfig, "openai API key is not set").
			WithSuggestion("Set the OPENAI_API_KEY environment variable")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openAIDefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIProvider{
		chat: chatClient{
			name:    "openai",
			apiKey:  cfg.APIKey,
			baseURL: baseURL,
			model:   model,
			client:  &http.Client{Timeout: timeout},
		},
	}, nil
}

// Generate implements Client.Generate
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return p.chat.generate(ctx, req)
}

// Info implements Client.Info
func (p *OpenAIProvider) Info() *Info {
	return &Info{
		Name:    "openai",
		Model:   p.chat.model,
		BaseURL: p.chat.baseURL,
	}
}

// IsAvailable implements Client.IsAvailable
func (p *OpenAIProvider) IsAvailable() bool {
	return p.chat.apiKey != ""
}

// Health implements Client.Health
func (p *OpenAIProvider) Health(ctx context.Context) error {
	return p.chat.health(ctx)
}

// Close implements Client.Close
func (p *OpenAIProvider) Close() error {
	p.chat.client.CloseIdleConnections()
	return nil
}
