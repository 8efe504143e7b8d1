package api

import (
	"net/http"
	"time"

	"flowdeck/internal/domain"
	"flowdeck/internal/service/schedules"
)

// previewTicks is how many upcoming ticks each schedule row carries.
const previewTicks = 3

type scheduleJSON struct {
	Name              string      `json:"name"`
	CronSchedule      string      `json:"cron_schedule"`
	JobName           string      `json:"job_name"`
	ExecutionTimezone string      `json:"execution_timezone,omitempty"`
	Description       string      `json:"description,omitempty"`
	Status            string      `json:"status"`
	NextTicks         []time.Time `json:"next_ticks,omitempty"`
}

type jobStateJSON struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	JobType          string `json:"job_type"`
	Status           string `json:"status"`
	RepositoryOrigin string `json:"repository_origin,omitempty"`
}

type repositoryJSON struct {
	Name         string         `json:"name"`
	LocationName string         `json:"location_name"`
	Schedules    []scheduleJSON `json:"schedules"`
}

type schedulerJSON struct {
	Kind    string `json:"kind"`
	Class   string `json:"class,omitempty"`
	Message string `json:"message,omitempty"`
}

type scheduleViewResponse struct {
	Kind       string          `json:"kind"`
	Message    string          `json:"message,omitempty"`
	Repository *repositoryJSON `json:"repository,omitempty"`
	Scheduler  *schedulerJSON  `json:"scheduler,omitempty"`
	Unloadable []jobStateJSON  `json:"unloadable,omitempty"`

	FetchedAt       time.Time `json:"fetched_at"`
	FetchDurationMs int64     `json:"fetch_duration_ms"`
	// Stale is set when a refresh has failed since this view was fetched.
	Stale     bool   `json:"stale"`
	LastError string `json:"last_error,omitempty"`
}

func scheduleToAPI(s domain.Schedule, now time.Time) scheduleJSON {
	out := scheduleJSON{
		Name:              s.Name,
		CronSchedule:      s.CronSchedule,
		JobName:           s.JobName,
		ExecutionTimezone: s.ExecutionTimezone,
		Description:       s.Description,
		Status:            s.Status,
	}
	if ticks, err := schedules.NextTicks(s, now, previewTicks); err == nil {
		out.NextTicks = ticks
	}
	return out
}

func jobStateToAPI(s domain.JobState) jobStateJSON {
	return jobStateJSON{
		ID:               s.ID,
		Name:             s.Name,
		JobType:          s.JobType,
		Status:           s.Status,
		RepositoryOrigin: s.RepositoryOrigin,
	}
}

func schedulerToAPI(o domain.SchedulerOutcome) *schedulerJSON {
	out := &schedulerJSON{Kind: string(o.Kind)}
	if o.Info != nil {
		out.Class = o.Info.Class
	}
	if o.Err != nil {
		out.Message = o.Err.Message
	}
	return out
}

func snapshotToAPI(snap *schedules.Snapshot, lastErr string) scheduleViewResponse {
	view := snap.View
	resp := scheduleViewResponse{
		Kind:            string(view.Kind),
		Message:         view.Message,
		FetchedAt:       snap.FetchedAt,
		FetchDurationMs: snap.Duration.Milliseconds(),
		Stale:           lastErr != "",
		LastError:       lastErr,
	}
	if view.Repository != nil {
		repo := repositoryJSON{
			Name:         view.Repository.Name,
			LocationName: view.Repository.LocationName,
			Schedules:    make([]scheduleJSON, 0, len(view.Repository.Schedules)),
		}
		for _, s := range view.Repository.Schedules {
			repo.Schedules = append(repo.Schedules, scheduleToAPI(s, snap.FetchedAt))
		}
		resp.Repository = &repo
		resp.Scheduler = schedulerToAPI(view.Scheduler)
	}
	for _, s := range view.Unloadable {
		resp.Unloadable = append(resp.Unloadable, jobStateToAPI(s))
	}
	return resp
}

// GetScheduleView returns the most recently resolved schedule view. The
// snapshot survives later failed refreshes; those surface as stale metadata
// rather than replacing the view.
func (h *Handler) GetScheduleView(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Schedules.Current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "schedule state not loaded yet; trigger a refresh or retry shortly")
		return
	}
	_, lastErr := h.Schedules.LastAttempt()
	writeJSON(w, http.StatusOK, snapshotToAPI(snap, lastErr))
}

// TriggerRefresh fetches fresh state from the orchestrator and returns the
// newly resolved view.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	snap, err := h.Schedules.Refresh(r.Context(), domain.RefreshTriggerManual, principal.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToAPI(snap, ""))
}
