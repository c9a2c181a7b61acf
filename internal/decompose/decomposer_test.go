package decompose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/provider"
)

// fakeProvider returns a canned response and records the request.
type fakeProvider struct {
	content string
	err     error
	lastReq *provider.GenerateRequest
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.GenerateResponse{
		Content:      f.content,
		Model:        "test-model",
		TokensUsed:   120,
		InputTokens:  100,
		OutputTokens: 20,
		Provider:     "fake",
	}, nil
}

func (f *fakeProvider) Info() *provider.Info {
	return &provider.Info{Name: "fake", Model: "test-model"}
}
func (f *fakeProvider) IsAvailable() bool                { return true }
func (f *fakeProvider) Health(ctx context.Context) error { return nil }
func (f *fakeProvider) Close() error                     { return nil }

func newTestDecomposer(f *fakeProvider) *Decomposer {
	_, m := metrics.NewRegistry()
	return New(f, WithMetrics(m))
}

func TestDecompose(t *testing.T) {
	fake := &fakeProvider{content: `{"tasks": [
		{"id": "a", "title": "A", "duration": 2},
		{"id": "b", "title": "B", "duration": 1, "dependencies": ["a"]}
	]}`}

	d := newTestDecomposer(fake)
	tasks, err := d.Decompose(context.Background(), "ship it", "2026-12-01")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// The provider request carries the fixed generation parameters.
	require.NotNil(t, fake.lastReq)
	assert.Equal(t, 0.7, fake.lastReq.Temperature)
	assert.Equal(t, 2000, fake.lastReq.MaxTokens)
	assert.True(t, fake.lastReq.JSONMode)
	assert.Equal(t, SystemPrompt, fake.lastReq.SystemPrompt)
	assert.Contains(t, fake.lastReq.Prompt, "ship it")
	assert.Contains(t, fake.lastReq.Prompt, "2026-12-01")
}

func TestDecomposeProviderError(t *testing.T) {
	fake := &fakeProvider{err: errors.NewProviderAuthError("fake")}

	d := newTestDecomposer(fake)
	_, err := d.Decompose(context.Background(), "goal", "")
	require.Error(t, err)

	var perr *errors.PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ErrCodeProviderAuth, perr.Code)
}

func TestDecomposeParseError(t *testing.T) {
	fake := &fakeProvider{content: "I drafted a plan in prose instead."}

	d := newTestDecomposer(fake)
	_, err := d.Decompose(context.Background(), "goal", "")
	require.Error(t, err)

	var perr *errors.PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ErrCodeProviderParse, perr.Code)
}

func TestDecomposeFeedsPipeline(t *testing.T) {
	fake := &fakeProvider{content: `{"tasks": [
		{"id": "design", "title": "Design", "duration": "2 days", "phase": "planning"},
		{"id": "build", "title": "Build", "duration": "1 week", "dependencies": ["design"]},
		{"id": "review", "title": "Review", "duration": 1, "dependencies": ["build"], "phase": "review"}
	]}`}

	d := newTestDecomposer(fake)
	raw, err := d.Decompose(context.Background(), "ship it", "")
	require.NoError(t, err)

	p, err := plan.Build("ship it", "", raw)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.TotalDuration)
	assert.Len(t, p.CriticalPath, 3)
}
