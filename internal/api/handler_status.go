package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Repository    string `json:"repository"`
	PollerRunning bool   `json:"poller_running"`
	PollInterval  string `json:"poll_interval"`

	LastFetchedAt   *time.Time `json:"last_fetched_at,omitempty"`
	LastViewKind    string     `json:"last_view_kind,omitempty"`
	ScheduleCount   int        `json:"schedule_count"`
	UnloadableCount int        `json:"unloadable_count"`

	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// GetStatus reports poller health and the shape of the current snapshot.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Repository:    h.Schedules.Selector().String(),
		PollerRunning: h.Poller.Running(),
		PollInterval:  h.Poller.Interval().String(),
	}
	if snap, ok := h.Schedules.Current(); ok {
		t := snap.FetchedAt
		resp.LastFetchedAt = &t
		resp.LastViewKind = string(snap.View.Kind)
		if snap.View.Repository != nil {
			resp.ScheduleCount = len(snap.View.Repository.Schedules)
		}
		resp.UnloadableCount = len(snap.View.Unloadable)
	}
	if at, errMsg := h.Schedules.LastAttempt(); errMsg != "" {
		resp.LastAttemptAt = &at
		resp.LastError = errMsg
	}
	writeJSON(w, http.StatusOK, resp)
}
