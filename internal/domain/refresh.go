package domain

import "time"

// Refresh trigger constants.
const (
	RefreshTriggerPoll   = "POLL"
	RefreshTriggerManual = "MANUAL"
)

// RefreshRecord is one poll of the orchestrator: when it ran, what view it
// resolved to, and how long the round trip took. Failed fetches record the
// upstream error and no view kind.
type RefreshRecord struct {
	ID              string
	Trigger         string // RefreshTriggerPoll or RefreshTriggerManual
	RequestedBy     string // principal name for manual refreshes, "poller" otherwise
	ViewKind        *string
	ErrorMessage    *string
	ScheduleCount   int
	UnloadableCount int
	DurationMs      int64
	CreatedAt       time.Time
}

// Succeeded reports whether the refresh produced a resolved view.
func (r RefreshRecord) Succeeded() bool { return r.ViewKind != nil }

// RefreshFilter holds filter parameters for querying refresh history.
type RefreshFilter struct {
	Trigger *string
	Since   *time.Time
	Page    PageRequest
}
