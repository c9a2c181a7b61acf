package health

import (
	"context"

	"github.com/felixgeelhaar/taskplan/internal/provider"
)

// ProviderChecker checks the configured LLM provider clients. Decomposition
// degrades rather than fails while at least one provider responds.
type ProviderChecker struct {
	providers []provider.Client
}

// NewProviderChecker creates a checker over the given provider clients.
func NewProviderChecker(providers ...provider.Client) *ProviderChecker {
	return &ProviderChecker{providers: providers}
}

// Name returns the name of this health check.
func (c *ProviderChecker) Name() string {
	return "llm-providers"
}

// Check calls IsAvailable and Health on each provider. Healthy when all
// respond, degraded when some do, unhealthy when none are usable.
func (c *ProviderChecker) Check(ctx context.Context) *Result {
	if len(c.providers) == 0 {
		return Unhealthy("no LLM providers configured").
			WithDetail("provider_count", 0).
			WithDetail("suggestion", "Set GROQ_API_KEY or OPENAI_API_KEY")
	}

	healthyCount := 0
	details := make(map[string]any)

	for _, p := range c.providers {
		name := p.Info().Name

		if !p.IsAvailable() {
			details[name] = map[string]any{"available": false, "healthy": false}
			continue
		}

		if err := p.Health(ctx); err != nil {
			details[name] = map[string]any{
				"available": true,
				"healthy":   false,
				"error":     err.Error(),
			}
			continue
		}

		healthyCount++
		details[name] = map[string]any{"available": true, "healthy": true}
	}

	var result *Result
	switch {
	case healthyCount == len(c.providers):
		result = Healthy("all LLM providers are responding")
	case healthyCount > 0:
		result = Degraded("some LLM providers are unavailable")
	default:
		result = Unhealthy("no LLM providers are responding")
	}

	result.WithDetail("provider_count", len(c.providers)).
		WithDetail("healthy_count", healthyCount)
	for name, d := range details {
		result.WithDetail(name, d)
	}
	return result
}
