package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/decompose"
	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/provider"
	"github.com/felixgeelhaar/taskplan/internal/store"
)

// scriptedProvider returns a fixed decomposition payload.
type scriptedProvider struct {
	content string
	err     error
}

func (p *scriptedProvider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &provider.GenerateResponse{Content: p.content, Model: "test"}, nil
}
func (p *scriptedProvider) Info() *provider.Info             { return &provider.Info{Name: "test", Model: "test"} }
func (p *scriptedProvider) IsAvailable() bool                { return true }
func (p *scriptedProvider) Health(ctx context.Context) error { return nil }
func (p *scriptedProvider) Close() error                     { return nil }

func newTestServer(t *testing.T, prov provider.Client) *Server {
	t.Helper()
	reg, m := metrics.NewRegistry()

	pm := health.NewProbeManager("test")
	pm.MarkInitialized()

	srv := NewServer(Deps{
		ProbeManager: pm,
		Decomposer:   decompose.New(prov, decompose.WithMetrics(m)),
		Store:        store.NewFileStore(t.TempDir()),
		Metrics:      m,
		Gatherer:     reg,
	}, Config{Address: ":0"})
	return srv
}

const goodBreakdown = `{"tasks": [
	{"id": "design", "title": "Design", "duration": 2, "phase": "planning"},
	{"id": "build", "title": "Build", "duration": 3, "dependencies": ["design"]},
	{"id": "verify", "title": "Verify", "duration": 1, "dependencies": ["build"], "phase": "review"}
]}`

func postPlan(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCreatePlan(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	w := postPlan(t, srv, `{"goal": "ship the feature", "deadline": "2026-10-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.PlanID)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "ship the feature", resp.Plan.Goal)
	assert.Equal(t, 3, resp.Plan.TaskCount())
	assert.Equal(t, 6.0, resp.Plan.TotalDuration)
}

func TestCreatePlanBadRequests(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	w := postPlan(t, srv, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postPlan(t, srv, `{"goal": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePlanValidationFailure(t *testing.T) {
	// Decomposer output contains a cycle; the pipeline must reject it with
	// a 422 and a structured body.
	srv := newTestServer(t, &scriptedProvider{content: `{"tasks": [
		{"id": "a", "title": "A", "duration": 1, "dependencies": ["b"]},
		{"id": "b", "title": "B", "duration": 1, "dependencies": ["a"]}
	]}`})

	w := postPlan(t, srv, `{"goal": "impossible"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PLAN-006", body.Code)
	assert.Equal(t, []string{"a", "b", "a"}, body.Tasks)
}

func TestCreatePlanProviderFailure(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: "not json"})

	w := postPlan(t, srv, `{"goal": "goal"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PROVIDER-007", body.Code)
}

func TestGetAndDeletePlan(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	w := postPlan(t, srv, `{"goal": "goal"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created createPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// GET by id
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+created.PlanID.String(), nil)
	w2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var rec store.Record
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &rec))
	assert.Equal(t, created.PlanID, rec.ID)

	// DELETE
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/plans/"+created.PlanID.String(), nil)
	w3 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNoContent, w3.Code)

	// Second GET is a 404
	req = httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+created.PlanID.String(), nil)
	w4 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w4, req)
	assert.Equal(t, http.StatusNotFound, w4.Code)
}

func TestListPlans(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	require.Equal(t, http.StatusCreated, postPlan(t, srv, `{"goal": "first"}`).Code)
	require.Equal(t, http.StatusCreated, postPlan(t, srv, `{"goal": "second"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []store.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 2)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	for _, path := range []string{"/health/live", "/health/ready", "/health/startup", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestReadinessFailsDuringShutdown(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})
	srv.probeManager.MarkShutdown()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Liveness stays 200 so the container is not restarted mid-drain.
	req = httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStoreGaugeTracksMutations(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	w := postPlan(t, srv, `{"goal": "goal"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.StorePlans))

	var created createPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	require.Equal(t, http.StatusCreated, postPlan(t, srv, `{"goal": "another goal"}`).Code)
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.metrics.StorePlans))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/plans/"+string(created.PlanID), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.StorePlans))
}

func TestErrorCounterRecordsFailedRequests(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})

	w := postPlan(t, srv, `{"goal": ""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	counter := srv.metrics.Errors.WithLabelValues(string(errors.ErrCodeConfigInvalid), "api")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &scriptedProvider{content: goodBreakdown})
	require.Equal(t, http.StatusCreated, postPlan(t, srv, `{"goal": "goal"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taskplan_plan_builds_total")
}
