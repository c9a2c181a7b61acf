package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/store"
)

// createPlanRequest is the body of POST /api/v1/plans.
type createPlanRequest struct {
	Goal     string `json:"goal"`
	Deadline string `json:"deadline,omitempty"`
}

// createPlanResponse is the body of a successful plan creation.
type createPlanResponse struct {
	PlanID store.PlanID `json:"plan_id"`
	Plan   *plan.Plan   `json:"plan"`
}

// errorResponse is the JSON error body for all API failures.
type errorResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Tasks       []string `json:"tasks,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// handleCreatePlan decomposes a goal, runs the planning pipeline, and saves
// the result.
// POST /api/v1/plans
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeConfigInvalid, "request body is not valid JSON"))
		return
	}
	if strings.TrimSpace(req.Goal) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeConfigInvalid, "goal is required"))
		return
	}

	ctx := r.Context()

	raw, err := s.decomposer.Decompose(ctx, req.Goal, req.Deadline)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	buildStart := time.Now()
	built, err := plan.Build(req.Goal, req.Deadline, raw)
	s.metrics.PlanBuilds.WithLabelValues(fmt.Sprintf("%t", err == nil)).Inc()
	s.metrics.PlanBuildDuration.WithLabelValues().Observe(time.Since(buildStart).Seconds())
	if err != nil {
		if perr, ok := errors.AsPlanError(err); ok && perr.IsValidation() {
			s.metrics.ValidationErrors.WithLabelValues(string(perr.Code)).Inc()
		}
		s.writeError(w, statusForError(err), err)
		return
	}
	s.metrics.PlanTaskCount.WithLabelValues().Observe(float64(built.TaskCount()))
	s.metrics.PlanTotalDuration.WithLabelValues().Observe(built.TotalDuration)

	id, err := s.store.Save(ctx, built)
	s.metrics.StoreOperations.WithLabelValues("save", fmt.Sprintf("%t", err == nil)).Inc()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.refreshStoreGauge(ctx)

	s.logger.Info("plan created",
		"plan_id", id.String(),
		"task_count", built.TaskCount(),
		"total_duration", built.TotalDuration)

	s.writeJSON(w, http.StatusCreated, createPlanResponse{PlanID: id, Plan: built})
}

// handleListPlans returns summaries of all saved plans, newest first.
// GET /api/v1/plans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	s.metrics.StoreOperations.WithLabelValues("list", fmt.Sprintf("%t", err == nil)).Inc()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// handleGetPlan returns one saved plan.
// GET /api/v1/plans/{id}
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := store.PlanID(r.PathValue("id"))

	rec, err := s.store.Load(r.Context(), id)
	s.metrics.StoreOperations.WithLabelValues("load", fmt.Sprintf("%t", err == nil)).Inc()
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleDeletePlan removes a saved plan.
// DELETE /api/v1/plans/{id}
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := store.PlanID(r.PathValue("id"))

	err := s.store.Delete(r.Context(), id)
	s.metrics.StoreOperations.WithLabelValues("delete", fmt.Sprintf("%t", err == nil)).Inc()
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.refreshStoreGauge(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// refreshStoreGauge re-counts stored plans after a mutation. The gauge
// tracks the store itself rather than a running delta, so plans removed
// outside the API don't skew it.
func (s *Server) refreshStoreGauge(ctx context.Context) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return
	}
	s.metrics.StorePlans.Set(float64(len(summaries)))
}

// statusForError maps coded errors to HTTP statuses: validation failures are
// the caller's fault (422), provider failures are upstream (502), store
// misses are 404.
func statusForError(err error) int {
	perr, ok := errors.AsPlanError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch {
	case perr.Code == errors.ErrCodePlanNotFound:
		return http.StatusNotFound
	case perr.IsValidation():
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(string(perr.Code), "PROVIDER-"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("encode response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	body := errorResponse{Code: "INTERNAL", Message: err.Error()}
	if perr, ok := errors.AsPlanError(err); ok {
		body.Code = string(perr.Code)
		body.Message = perr.Message
		body.Tasks = perr.TaskIDs
		body.Suggestions = perr.Suggestions
	}
	s.metrics.Errors.WithLabelValues(body.Code, "api").Inc()

	s.logger.WithError(err).Warn("request failed", "status", status)
	s.writeJSON(w, status, body)
}

// writeProbeResponse writes probe results with the right status code.
func (s *Server) writeProbeResponse(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status == health.StatusUnhealthy {
		w.WriteHeader(unhealthyStatus)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.WithError(err).Error("encode probe response failed")
	}
}

// handleLiveness reports process responsiveness. Always 200, degraded during
// shutdown.
// GET /health/live
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness runs dependency checks; 503 when not ready so the pod is
// pulled from service endpoints.
// GET /health/ready
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}

// handleStartup reports whether initialization finished; 503 until it has.
// GET /health/startup
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckStartup(r.Context()), http.StatusServiceUnavailable)
}
