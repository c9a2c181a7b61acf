package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/provider"
)

// staticChecker returns a fixed result.
type staticChecker struct {
	name   string
	result *Result
}

func (c *staticChecker) Name() string                      { return c.name }
func (c *staticChecker) Check(ctx context.Context) *Result { return c.result }

func TestManagerCheck(t *testing.T) {
	m := NewManager()
	m.AddChecker(&staticChecker{name: "a", result: Healthy("ok")})
	m.AddChecker(&staticChecker{name: "b", result: Degraded("wobbly")})

	results := m.Check(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, StatusHealthy, results["a"].Status)
	assert.Equal(t, StatusDegraded, results["b"].Status)
	assert.Equal(t, []string{"a", "b"}, m.CheckNames())
}

func TestManagerOverallStatus(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name    string
		results map[string]*Result
		want    Status
	}{
		{"empty", map[string]*Result{}, StatusHealthy},
		{"all healthy", map[string]*Result{"a": Healthy("ok")}, StatusHealthy},
		{"one degraded", map[string]*Result{"a": Healthy("ok"), "b": Degraded("meh")}, StatusDegraded},
		{"one unhealthy", map[string]*Result{"a": Degraded("meh"), "b": Unhealthy("down")}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.OverallStatus(tt.results))
		})
	}
}

func TestProbeManagerLifecycle(t *testing.T) {
	pm := NewProbeManager("1.2.3")
	ctx := context.Background()

	// Before initialization: startup fails, liveness passes.
	assert.Equal(t, StatusUnhealthy, pm.CheckStartup(ctx).Status)
	assert.Equal(t, StatusHealthy, pm.CheckLiveness(ctx).Status)

	pm.MarkInitialized()
	assert.Equal(t, StatusHealthy, pm.CheckStartup(ctx).Status)

	ready := pm.CheckReadiness(ctx)
	assert.Equal(t, StatusHealthy, ready.Status)
	assert.Equal(t, "1.2.3", ready.Version)

	pm.MarkShutdown()
	assert.Equal(t, StatusDegraded, pm.CheckLiveness(ctx).Status)
	assert.Equal(t, StatusUnhealthy, pm.CheckReadiness(ctx).Status)
}

func TestProbeManagerReadinessRunsChecks(t *testing.T) {
	pm := NewProbeManager("dev")
	pm.AddChecker(&staticChecker{name: "dep", result: Unhealthy("down")})
	pm.MarkInitialized()

	res := pm.CheckReadiness(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	require.Contains(t, res.Checks, "dep")
}

func TestStoreChecker(t *testing.T) {
	t.Run("writable directory", func(t *testing.T) {
		c := NewStoreChecker(t.TempDir())
		res := c.Check(context.Background())
		assert.Equal(t, StatusHealthy, res.Status)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		c := NewStoreChecker(t.TempDir() + "/nested/store")
		res := c.Check(context.Background())
		assert.Equal(t, StatusHealthy, res.Status)
	})
}

// healthStub implements provider.Client for checker tests.
type healthStub struct {
	name      string
	available bool
	healthErr error
}

func (s *healthStub) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	return nil, errors.New("not implemented")
}
func (s *healthStub) Info() *provider.Info              { return &provider.Info{Name: s.name} }
func (s *healthStub) IsAvailable() bool                 { return s.available }
func (s *healthStub) Health(ctx context.Context) error  { return s.healthErr }
func (s *healthStub) Close() error                      { return nil }

func TestProviderChecker(t *testing.T) {
	tests := []struct {
		name      string
		providers []provider.Client
		want      Status
	}{
		{
			name:      "no providers",
			providers: nil,
			want:      StatusUnhealthy,
		},
		{
			name: "all healthy",
			providers: []provider.Client{
				&healthStub{name: "groq", available: true},
			},
			want: StatusHealthy,
		},
		{
			name: "partially healthy",
			providers: []provider.Client{
				&healthStub{name: "groq", available: true},
				&healthStub{name: "openai", available: true, healthErr: errors.New("rate limited")},
			},
			want: StatusDegraded,
		},
		{
			name: "all down",
			providers: []provider.Client{
				&healthStub{name: "groq", available: false},
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewProviderChecker(tt.providers...)
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			res := c.Check(ctx)
			assert.Equal(t, tt.want, res.Status, res.Message)
		})
	}
}
