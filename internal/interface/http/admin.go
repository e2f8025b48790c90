package http

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alem-hub/admission-workflow/config"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/scheduler"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// JobAdmin is the operator view of the background scheduler.
type JobAdmin interface {
	ListJobs() []scheduler.JobInfo
	RunNow(ctx context.Context, jobName string) (*scheduler.JobResult, error)
	EnableJob(jobName string) error
	DisableJob(jobName string) error
	GetHistory(limit int) []scheduler.JobResult
}

// FeatureAdmin manages feature flags at runtime.
type FeatureAdmin interface {
	GetAllFeatures() map[string]config.Feature
	EnableFeature(name string) error
	DisableFeature(name string) error
	SetRolloutPercent(name string, percent int) error
	SetOverride(matricule, name string, enabled bool)
	ClearOverrides(matricule string)
}

func (s *Server) adminRoutes(r chi.Router) {
	if jobs := s.deps.Jobs; jobs != nil {
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/history", s.handleJobHistory)
		r.Post("/jobs/{name}/run", s.handleRunJob)
		r.Put("/jobs/{name}", s.handleToggleJob)
	}
	if s.deps.Features != nil {
		r.Get("/features", s.handleListFeatures)
		r.Put("/features/{name}", s.handleUpdateFeature)
		r.Put("/features/{name}/overrides/{matricule}", s.handleSetOverride)
		r.Delete("/overrides/{matricule}", s.handleClearOverrides)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// JOBS
// ══════════════════════════════════════════════════════════════════════════════

type jobResultResponse struct {
	Job         string    `json:"job"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Manual      bool      `json:"manual"`
}

func newJobResultResponse(r scheduler.JobResult) jobResultResponse {
	resp := jobResultResponse{
		Job:         r.JobName,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Duration:    r.Duration.String(),
		Success:     r.Success,
		Manual:      r.Manual,
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}
	return resp
}

// jobError maps scheduler errors to shared kinds.
func jobError(op string, err error) error {
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		return shared.WrapError("scheduler", op, shared.ErrNotFound, "job not found", err)
	case errors.Is(err, scheduler.ErrJobBusy):
		return shared.WrapError("scheduler", op, shared.ErrConcurrentModification, "job is already running", err)
	default:
		return err
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Jobs.ListJobs())
}

func (s *Server) handleJobHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryParamInt(r, "limit", 50)
	if err != nil {
		s.writeError(w, r, "job_history", invalidRequest(err.Error()))
		return
	}
	history := s.deps.Jobs.GetHistory(limit)
	out := make([]jobResultResponse, 0, len(history))
	for _, h := range history {
		out = append(out, newJobResultResponse(h))
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleRunJob runs a job synchronously. A failed run is reported in the
// body, not as an HTTP error.
func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Jobs.RunNow(r.Context(), chi.URLParam(r, "name"))
	if result == nil {
		s.writeError(w, r, "run_job", jobError("RunNow", err))
		return
	}
	writeJSON(w, r, http.StatusOK, newJobResultResponse(*result))
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleToggleJob(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, "toggle_job", err)
		return
	}
	if body.Enabled == nil {
		s.writeError(w, r, "toggle_job", invalidRequest("enabled is required"))
		return
	}

	name := chi.URLParam(r, "name")
	var err error
	if *body.Enabled {
		err = s.deps.Jobs.EnableJob(name)
	} else {
		err = s.deps.Jobs.DisableJob(name)
	}
	if err != nil {
		s.writeError(w, r, "toggle_job", jobError("ToggleJob", err))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"job": name, "enabled": *body.Enabled})
}

// ══════════════════════════════════════════════════════════════════════════════
// FEATURE FLAGS
// ══════════════════════════════════════════════════════════════════════════════

type featureResponse struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Enabled        bool       `json:"enabled"`
	RolloutPercent int        `json:"rollout_percent"`
	Contextes      []string   `json:"contextes,omitempty"`
	EnabledFrom    *time.Time `json:"enabled_from,omitempty"`
	EnabledUntil   *time.Time `json:"enabled_until,omitempty"`
}

func newFeatureResponse(f config.Feature) featureResponse {
	return featureResponse{
		Name:           f.Name,
		Description:    f.Description,
		Enabled:        f.Enabled,
		RolloutPercent: f.RolloutPercent,
		Contextes:      f.TargetContextes,
		EnabledFrom:    f.EnabledFrom,
		EnabledUntil:   f.EnabledUntil,
	}
}

func featureError(op string, err error) error {
	switch {
	case errors.Is(err, config.ErrFeatureNotFound):
		return shared.WrapError("features", op, shared.ErrNotFound, "feature not found", err)
	case errors.Is(err, config.ErrInvalidRolloutPercent):
		return shared.WrapError("features", op, shared.ErrInvalidInput, err.Error(), err)
	default:
		return err
	}
}

func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	all := s.deps.Features.GetAllFeatures()
	out := make([]featureResponse, 0, len(all))
	for _, f := range all {
		out = append(out, newFeatureResponse(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, r, http.StatusOK, out)
}

type featureUpdateRequest struct {
	Enabled        *bool `json:"enabled"`
	RolloutPercent *int  `json:"rollout_percent"`
}

// handleUpdateFeature switches a flag on or off, or sets its rollout.
func (s *Server) handleUpdateFeature(w http.ResponseWriter, r *http.Request) {
	var body featureUpdateRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, "update_feature", err)
		return
	}

	name := chi.URLParam(r, "name")
	var err error
	switch {
	case body.RolloutPercent != nil:
		err = s.deps.Features.SetRolloutPercent(name, *body.RolloutPercent)
	case body.Enabled != nil && *body.Enabled:
		err = s.deps.Features.EnableFeature(name)
	case body.Enabled != nil:
		err = s.deps.Features.DisableFeature(name)
	default:
		err = invalidRequest("enabled or rollout_percent is required")
	}
	if err != nil {
		s.writeError(w, r, "update_feature", featureError("UpdateFeature", err))
		return
	}

	f, ok := s.deps.Features.GetAllFeatures()[name]
	if !ok {
		s.writeError(w, r, "update_feature", featureError("UpdateFeature", config.ErrFeatureNotFound))
		return
	}
	writeJSON(w, r, http.StatusOK, newFeatureResponse(f))
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, "set_override", err)
		return
	}
	if body.Enabled == nil {
		s.writeError(w, r, "set_override", invalidRequest("enabled is required"))
		return
	}

	name := chi.URLParam(r, "name")
	if _, ok := s.deps.Features.GetAllFeatures()[name]; !ok {
		s.writeError(w, r, "set_override", featureError("SetOverride", config.ErrFeatureNotFound))
		return
	}
	matricule := chi.URLParam(r, "matricule")
	s.deps.Features.SetOverride(matricule, name, *body.Enabled)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"feature":   name,
		"matricule": matricule,
		"enabled":   *body.Enabled,
	})
}

func (s *Server) handleClearOverrides(w http.ResponseWriter, r *http.Request) {
	s.deps.Features.ClearOverrides(chi.URLParam(r, "matricule"))
	w.WriteHeader(http.StatusNoContent)
}
