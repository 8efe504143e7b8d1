package ui

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdeck/internal/config"
	"flowdeck/internal/domain"
	"flowdeck/internal/service/docs"
	"flowdeck/internal/service/schedules"
	"flowdeck/internal/testutil"
)

type uiFixture struct {
	handler   *Handler
	gateway   *testutil.MockScheduleGateway
	audit     *testutil.MockAuditRepo
	refreshes *testutil.MockRefreshLogRepo
	schedules *schedules.Service
	router    *chi.Mux
}

func newFixture(t *testing.T) *uiFixture {
	t.Helper()
	gateway := &testutil.MockScheduleGateway{}
	audit := &testutil.MockAuditRepo{}
	refreshes := &testutil.MockRefreshLogRepo{}
	logger := slog.New(slog.DiscardHandler)

	selector := domain.RepositorySelector{RepositoryName: "analytics", LocationName: "prod"}
	schedulesSvc := schedules.NewService(gateway, selector, refreshes, audit, logger)
	poller := schedules.NewPoller(schedulesSvc, time.Hour, logger)
	docsSvc, err := docs.NewService("https://docs.flowdeck.dev", domain.DocsVersionSet{
		All:     []string{"1.2", "1.1", "1.0"},
		Current: "1.2",
		Default: "1.2",
	}, logger)
	require.NoError(t, err)

	h := NewHandler(schedulesSvc, poller, docsSvc, audit, refreshes, config.AuthConfig{APIKeyEnabled: true, APIKeyHeader: "X-API-Key"}, false)
	router := chi.NewRouter()
	router.Route("/ui", func(r chi.Router) {
		MountRoutes(r, h, principalMiddleware)
	})

	return &uiFixture{
		handler:   h,
		gateway:   gateway,
		audit:     audit,
		refreshes: refreshes,
		schedules: schedulesSvc,
		router:    router,
	}
}

func principalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{Name: "operator", IsAdmin: true, Type: "user"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (f *uiFixture) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *uiFixture) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", "test-token")
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "test-token"})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func seedView(t *testing.T, f *uiFixture, result domain.ScheduleQueryResult) {
	t.Helper()
	f.gateway.FetchFn = func(context.Context, domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
		return result, nil
	}
	_, err := f.schedules.Refresh(context.Background(), domain.RefreshTriggerPoll, "poller")
	require.NoError(t, err)
}

func tableResult(scheds ...domain.Schedule) domain.ScheduleQueryResult {
	return domain.ScheduleQueryResult{
		Repository: domain.RepositoryOutcome{
			Kind: domain.RepositoryLoaded,
			Repository: &domain.RepositorySchedules{
				Name:         "analytics",
				LocationName: "prod",
				Schedules:    scheds,
			},
		},
		Scheduler: domain.SchedulerOutcome{
			Kind: domain.SchedulerRunning,
			Info: &domain.SchedulerInfo{Class: "DagsterDaemonScheduler"},
		},
		JobStates: domain.JobStatesOutcome{Kind: domain.JobStatesLoaded},
	}
}

// === Schedules page ===

func TestSchedulesPage_BeforeFirstSnapshot(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "has not been fetched")
	assert.Contains(t, rec.Body.String(), "Refresh now")
}

func TestSchedulesPage_Table(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, tableResult(
		domain.Schedule{Name: "daily_rollup", CronSchedule: "0 6 * * *", JobName: "rollup_job", Status: domain.ScheduleStatusRunning},
		domain.Schedule{Name: "weekly_report", CronSchedule: "0 8 * * 1", JobName: "report_job", ExecutionTimezone: "America/Chicago", Status: domain.ScheduleStatusStopped},
	))

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "daily_rollup")
	assert.Contains(t, body, "0 6 * * *")
	assert.Contains(t, body, "weekly_report")
	assert.Contains(t, body, "America/Chicago")
	assert.Contains(t, body, "RUNNING")
	assert.Contains(t, body, "STOPPED")
	assert.Contains(t, body, "DagsterDaemonScheduler")
	assert.Contains(t, body, "Fetched at")
}

func TestSchedulesPage_BackendError(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, domain.ScheduleQueryResult{
		Repository: domain.RepositoryOutcome{
			Kind: domain.RepositoryError,
			Err:  &domain.BackendError{Message: "ImportError: no module named schedules"},
		},
		Scheduler: domain.SchedulerOutcome{Kind: domain.SchedulerRunning, Info: &domain.SchedulerInfo{Class: "DagsterDaemonScheduler"}},
		JobStates: domain.JobStatesOutcome{Kind: domain.JobStatesLoaded},
	})

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Repository failed to load")
	assert.Contains(t, body, "ImportError: no module named schedules")
	assert.NotContains(t, body, "Quick filter")
}

func TestSchedulesPage_RepositoryMissing(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, domain.ScheduleQueryResult{
		Repository: domain.RepositoryOutcome{Kind: domain.RepositoryNotFound},
		Scheduler:  domain.SchedulerOutcome{Kind: domain.SchedulerRunning, Info: &domain.SchedulerInfo{Class: "DagsterDaemonScheduler"}},
		JobStates:  domain.JobStatesOutcome{Kind: domain.JobStatesLoaded},
	})

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analytics@prod was not found")
}

func TestSchedulesPage_EmptyRepository(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, tableResult())

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "defines no schedules")
}

func TestSchedulesPage_UnloadableSection(t *testing.T) {
	f := newFixture(t)
	result := tableResult(domain.Schedule{Name: "daily_rollup", CronSchedule: "0 6 * * *", JobName: "rollup_job", Status: domain.ScheduleStatusRunning})
	result.JobStates.States = []domain.JobState{
		{ID: "js-1", Name: "ghost_schedule", JobType: domain.JobTypeSchedule, Status: domain.ScheduleStatusRunning, RepositoryOrigin: "legacy@prod"},
	}
	seedView(t, f, result)

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Unloadable schedules")
	assert.Contains(t, body, "ghost_schedule")
	assert.Contains(t, body, "legacy@prod")
}

func TestSchedulesPage_StaleAfterFailedPoll(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, tableResult(domain.Schedule{Name: "daily_rollup", CronSchedule: "0 6 * * *", JobName: "rollup_job", Status: domain.ScheduleStatusRunning}))

	f.gateway.FetchFn = func(context.Context, domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
		return domain.ScheduleQueryResult{}, domain.ErrUpstream("graphql query failed: connection refused")
	}
	_, err := f.schedules.Refresh(context.Background(), domain.RefreshTriggerPoll, "poller")
	require.Error(t, err)

	rec := f.get(t, "/ui/schedules")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "stale")
	assert.Contains(t, body, "connection refused")
	assert.Contains(t, body, "daily_rollup")
}

// === Refresh action ===

func TestSchedulesRefresh_RedirectsAndAudits(t *testing.T) {
	f := newFixture(t)
	f.gateway.FetchFn = func(context.Context, domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
		return tableResult(), nil
	}

	rec := f.postForm(t, "/ui/schedules/refresh", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/schedules", rec.Header().Get("Location"))

	require.NotNil(t, f.refreshes.LastRecord())
	assert.Equal(t, domain.RefreshTriggerManual, f.refreshes.LastRecord().Trigger)
	assert.Equal(t, "operator", f.refreshes.LastRecord().RequestedBy)
	assert.True(t, f.audit.HasAction("schedules.refresh"))
}

func TestSchedulesRefresh_UpstreamFailureRendersErrorPage(t *testing.T) {
	f := newFixture(t)
	f.gateway.FetchFn = func(context.Context, domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
		return domain.ScheduleQueryResult{}, domain.ErrUpstream("orchestrator returned http 502")
	}

	rec := f.postForm(t, "/ui/schedules/refresh", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Orchestrator Unavailable")
	assert.Contains(t, body, "http 502")
}

func TestSchedulesRefresh_WithoutCSRFToken(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/ui/schedules/refresh", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, f.refreshes.LastRecord())
}

// === Overview ===

func TestHome_RendersStatusCards(t *testing.T) {
	f := newFixture(t)
	seedView(t, f, tableResult(domain.Schedule{Name: "daily_rollup", CronSchedule: "0 6 * * *", JobName: "rollup_job", Status: domain.ScheduleStatusRunning}))

	rec := f.get(t, "/ui/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "analytics@prod")
	assert.Contains(t, body, "Poller")
	assert.Contains(t, body, "TABLE")
	assert.Contains(t, body, "1 schedules, 0 unloadable.")
	assert.Contains(t, body, "Recent refreshes")
	assert.Contains(t, body, "POLL")
}

// === Docs ===

func TestDocsPage_DefaultVersionPaths(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Writing schedules")
	assert.Contains(t, body, "/guides/schedules")
	assert.NotContains(t, body, "/1.2/guides/schedules")
	assert.Contains(t, body, "https://docs.flowdeck.dev")
}

func TestDocsPage_PinnedVersionPaths(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs", &http.Cookie{Name: docs.VersionCookie, Value: "1.1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/1.1/guides/schedules")
}

func TestDocsPin_SetsCookieAndAudits(t *testing.T) {
	f := newFixture(t)

	form := url.Values{}
	form.Set("version", "1.1")
	rec := f.postForm(t, "/ui/docs/pin", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/docs", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), docs.VersionCookie+"=1.1")
	assert.True(t, f.audit.HasAction("docs.pin_version"))
}

func TestDocsPin_EmptyVersionClearsPin(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm(t, "/ui/docs/pin", url.Values{}, &http.Cookie{Name: docs.VersionCookie, Value: "1.1"})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == docs.VersionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "pin cookie should be cleared")
}

func TestDocsPin_RejectsUnpublishedVersion(t *testing.T) {
	f := newFixture(t)

	form := url.Values{}
	form.Set("version", "9.9")
	rec := f.postForm(t, "/ui/docs/pin", form)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "9.9")
}

func TestDocsOpen_RedirectsToResolvedURL(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs/open?path=guides/schedules&version=1.0")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://docs.flowdeck.dev/1.0/guides/schedules", rec.Header().Get("Location"))
}

func TestDocsOpen_UsesPinnedVersion(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs/open?path=guides/schedules", &http.Cookie{Name: docs.VersionCookie, Value: "1.1"})

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://docs.flowdeck.dev/1.1/guides/schedules", rec.Header().Get("Location"))
}

func TestDocsOpen_DefaultVersionDropsPrefix(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs/open?path=/1.0/guides/schedules/&version=1.2")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://docs.flowdeck.dev/guides/schedules", rec.Header().Get("Location"))
}

func TestDocsOpen_UnpublishedVersionRendersError(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/ui/docs/open?path=guides/schedules&version=7.7")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "7.7")
}
