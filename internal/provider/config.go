package provider

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Config holds the settings needed to construct a provider client.
type Config struct {
	// Name selects the provider implementation ("groq" or "openai")
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// APIKey authenticates against the provider API
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Model overrides the provider's default model
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// BaseURL overrides the provider's default endpoint, mainly for tests
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout bounds a single API request
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// envKeyVar maps provider names to their conventional API key variables.
var envKeyVar = map[string]string{
	"groq":   "GROQ_API_KEY",
	"openai": "OPENAI_API_KEY",
}

// ResolveAPIKey fills APIKey from the provider's conventional environment
// variable when the config leaves it empty.
func (c *Config) ResolveAPIKey() {
	if c.APIKey != "" {
		return
	}
	if v, ok := envKeyVar[c.Name]; ok {
		c.APIKey = os.Getenv(v)
	}
}

// New constructs the provider named in the config.
func New(cfg *Config) (Client, error) {
	cfg.ResolveAPIKey()

	switch cfg.Name {
	case "groq":
		return NewGroqProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, errors.New(errors.ErrCodeProviderNotFound, fmt.Sprintf("unknown provider: %s", cfg.Name)).
			WithSuggestion("Supported providers: groq, openai, ollama")
	}
}
