package decompose

import (
	"context"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/log"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/provider"
)

// Generation parameters for decomposition requests.
const (
	requestTemperature = 0.7
	requestMaxTokens   = 2000
)

// Decomposer turns goals into raw task breakdowns via an LLM provider.
type Decomposer struct {
	client  provider.Client
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option configures a Decomposer.
type Option func(*Decomposer)

// WithLogger sets the logger used for request logging.
func WithLogger(logger *log.Logger) Option {
	return func(d *Decomposer) { d.logger = logger }
}

// WithMetrics sets the metrics instance for provider instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Decomposer) { d.metrics = m }
}

// New creates a Decomposer backed by the given provider client.
func New(client provider.Client, opts ...Option) *Decomposer {
	d := &Decomposer{
		client:  client,
		logger:  log.DefaultLogger(),
		metrics: metrics.GetDefault(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decompose asks the provider to break the goal into raw tasks. The result
// still has to pass the planning pipeline's validation.
func (d *Decomposer) Decompose(ctx context.Context, goal, deadline string) ([]plan.RawTask, error) {
	info := d.client.Info()
	start := time.Now()

	resp, err := d.client.Generate(ctx, &provider.GenerateRequest{
		Prompt:       BuildPrompt(goal, deadline),
		SystemPrompt: SystemPrompt,
		Temperature:  requestTemperature,
		MaxTokens:    requestMaxTokens,
		JSONMode:     true,
	})

	latency := time.Since(start)
	d.metrics.ProviderCalls.WithLabelValues(info.Name, info.Model, strconv.FormatBool(err == nil)).Inc()
	d.metrics.ProviderLatency.WithLabelValues(info.Name, info.Model).Observe(latency.Seconds())

	if err != nil {
		d.metrics.ProviderErrors.WithLabelValues(info.Name, info.Model, "generate").Inc()
		d.logger.WithError(err).Error("goal decomposition failed",
			"provider", info.Name,
			"model", info.Model)
		return nil, err
	}

	d.metrics.ProviderTokens.WithLabelValues(info.Name, info.Model, "input").Add(float64(resp.InputTokens))
	d.metrics.ProviderTokens.WithLabelValues(info.Name, info.Model, "output").Add(float64(resp.OutputTokens))

	tasks, err := ParseResponse(info.Name, resp.Content)
	if err != nil {
		d.metrics.ProviderErrors.WithLabelValues(info.Name, info.Model, "parse").Inc()
		d.logger.WithError(err).Error("unparseable decomposition response",
			"provider", info.Name)
		return nil, err
	}

	d.logger.Info("goal decomposed",
		"provider", info.Name,
		"model", resp.Model,
		"task_count", len(tasks),
		"tokens_used", resp.TokensUsed,
		"latency", latency)

	return tasks, nil
}
