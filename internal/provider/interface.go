// Package provider abstracts the LLM backends used for goal decomposition.
package provider

import (
	"context"
)

// Client is the interface every LLM provider implements.
type Client interface {
	// Generate sends a prompt and returns the complete response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Info returns metadata about the provider (name, default model).
	Info() *Info

	// IsAvailable checks if the provider is configured and ready to use.
	IsAvailable() bool

	// Health performs a health check on the provider.
	// Returns nil if healthy, error describing the problem otherwise.
	Health(ctx context.Context) error

	// Close cleans up any resources used by the provider.
	Close() error
}

// Info contains metadata about a provider
type Info struct {
	// Name is the provider identifier (e.g., "groq", "openai")
	Name string

	// Model is the default model the provider targets
	Model string

	// BaseURL is the API endpoint root
	BaseURL string
}
