package api

import (
	"net/http"
	"time"

	"flowdeck/internal/domain"
)

type refreshRecordJSON struct {
	ID              string    `json:"id"`
	Trigger         string    `json:"trigger"`
	RequestedBy     string    `json:"requested_by"`
	ViewKind        *string   `json:"view_kind,omitempty"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	ScheduleCount   int       `json:"schedule_count"`
	UnloadableCount int       `json:"unloadable_count"`
	DurationMs      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

type listRefreshesResponse struct {
	Refreshes     []refreshRecordJSON `json:"refreshes"`
	Total         int64               `json:"total"`
	NextPageToken string              `json:"next_page_token,omitempty"`
}

type auditEntryJSON struct {
	ID            string    `json:"id"`
	PrincipalName string    `json:"principal_name"`
	Action        string    `json:"action"`
	Target        *string   `json:"target,omitempty"`
	Detail        *string   `json:"detail,omitempty"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type listAuditResponse struct {
	Entries       []auditEntryJSON `json:"entries"`
	Total         int64            `json:"total"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

func optFilter(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func sinceFilter(r *http.Request) *time.Time {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ListRefreshes returns the poll history, newest first.
func (h *Handler) ListRefreshes(w http.ResponseWriter, r *http.Request) {
	filter := domain.RefreshFilter{
		Trigger: optFilter(r, "trigger"),
		Since:   sinceFilter(r),
		Page:    pageFromRequest(r),
	}
	records, total, err := h.Refreshes.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := listRefreshesResponse{
		Refreshes:     make([]refreshRecordJSON, 0, len(records)),
		Total:         total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for _, rec := range records {
		resp.Refreshes = append(resp.Refreshes, refreshRecordJSON{
			ID:              rec.ID,
			Trigger:         rec.Trigger,
			RequestedBy:     rec.RequestedBy,
			ViewKind:        rec.ViewKind,
			ErrorMessage:    rec.ErrorMessage,
			ScheduleCount:   rec.ScheduleCount,
			UnloadableCount: rec.UnloadableCount,
			DurationMs:      rec.DurationMs,
			CreatedAt:       rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAudit returns the audit trail, newest first.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		PrincipalName: optFilter(r, "principal_name"),
		Action:        optFilter(r, "action"),
		Status:        optFilter(r, "status"),
		Since:         sinceFilter(r),
		Page:          pageFromRequest(r),
	}
	entries, total, err := h.Audit.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := listAuditResponse{
		Entries:       make([]auditEntryJSON, 0, len(entries)),
		Total:         total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, auditEntryJSON{
			ID:            e.ID,
			PrincipalName: e.PrincipalName,
			Action:        e.Action,
			Target:        e.Target,
			Detail:        e.Detail,
			Status:        e.Status,
			ErrorMessage:  e.ErrorMessage,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
