package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/config"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/scheduler"
)

type fakeJobs struct {
	enabled map[string]bool
	busy    string
	echec   string
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{enabled: map[string]bool{"verifier_paiements": true}}
}

func (f *fakeJobs) ListJobs() []scheduler.JobInfo {
	return []scheduler.JobInfo{{Name: "verifier_paiements", Enabled: f.enabled["verifier_paiements"], Schedule: "@every 15m"}}
}

func (f *fakeJobs) RunNow(_ context.Context, name string) (*scheduler.JobResult, error) {
	if _, ok := f.enabled[name]; !ok {
		return nil, fmt.Errorf("%w: %s", scheduler.ErrJobNotFound, name)
	}
	if name == f.busy {
		return nil, fmt.Errorf("%w: %s", scheduler.ErrJobBusy, name)
	}
	res := &scheduler.JobResult{JobName: name, Success: true, Manual: true, Duration: time.Second}
	if name == f.echec {
		res.Success = false
		res.Error = errors.New("provider down")
		return res, res.Error
	}
	return res, nil
}

func (f *fakeJobs) EnableJob(name string) error  { return f.toggle(name, true) }
func (f *fakeJobs) DisableJob(name string) error { return f.toggle(name, false) }

func (f *fakeJobs) toggle(name string, on bool) error {
	if _, ok := f.enabled[name]; !ok {
		return fmt.Errorf("%w: %s", scheduler.ErrJobNotFound, name)
	}
	f.enabled[name] = on
	return nil
}

func (f *fakeJobs) GetHistory(limit int) []scheduler.JobResult {
	return []scheduler.JobResult{{JobName: "verifier_paiements", Success: false, Error: errors.New("timeout")}}[:min(limit, 1)]
}

func TestAdminJobs(t *testing.T) {
	jobs := newFakeJobs()
	h := newTestServer(t, testConfig(), Dependencies{Jobs: jobs})

	rec, env := do(t, h, http.MethodGet, "/api/v1/admin/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []scheduler.JobInfo
	require.NoError(t, json.Unmarshal(env.Data, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "verifier_paiements", infos[0].Name)

	rec, env = do(t, h, http.MethodPost, "/api/v1/admin/jobs/verifier_paiements/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result jobResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Success)
	assert.True(t, result.Manual)

	rec, env = do(t, h, http.MethodPost, "/api/v1/admin/jobs/inconnu/run", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/jobs/verifier_paiements", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, jobs.enabled["verifier_paiements"])

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/jobs/verifier_paiements", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/api/v1/admin/jobs/history?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []jobResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "timeout", history[0].Error)
}

func TestAdminJobs_FailedAndBusyRuns(t *testing.T) {
	jobs := newFakeJobs()
	jobs.enabled["recalculer_documents"] = true
	jobs.busy = "recalculer_documents"
	jobs.echec = "verifier_paiements"
	h := newTestServer(t, testConfig(), Dependencies{Jobs: jobs})

	rec, env := do(t, h, http.MethodPost, "/api/v1/admin/jobs/verifier_paiements/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result jobResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Success)
	assert.Equal(t, "provider down", result.Error)

	rec, env = do(t, h, http.MethodPost, "/api/v1/admin/jobs/recalculer_documents/run", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", env.Error.Code)
}

func TestAdminFeatures(t *testing.T) {
	flags := config.NewFeatureFlags()
	h := newTestServer(t, testConfig(), Dependencies{Features: flags})

	rec, env := do(t, h, http.MethodGet, "/api/v1/admin/features", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []featureResponse
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, len(flags.GetAllFeatures()))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	rec, env = do(t, h, http.MethodPut, "/api/v1/admin/features/"+config.FeatureNotificationsCandidat, `{"rollout_percent":25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var f featureResponse
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, 25, f.RolloutPercent)

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/features/"+config.FeatureHistorique, `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, flags.IsEnabled(config.FeatureHistorique, nil))

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/features/"+config.FeatureHistorique, `{"rollout_percent":150}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/features/inconnu", `{"enabled":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/v1/admin/features/"+config.FeatureNotificationsCandidat+"/overrides/0123456", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, flags.NotificationsFor("0123456"))

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/admin/overrides/0123456", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminRoutesAbsentWithoutDependencies(t *testing.T) {
	h := newTestServer(t, testConfig(), Dependencies{})

	rec, _ := do(t, h, http.MethodGet, "/api/v1/admin/jobs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
