package ui

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flowdeck/internal/domain"
	"flowdeck/internal/service/docs"
	"flowdeck/internal/service/schedules"
)

const tickPreviewCount = 3

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d := overviewPageData{
		Principal:     principalFromContext(ctx),
		Selector:      h.Schedules.Selector().String(),
		PollerRunning: h.Poller.Running(),
		PollInterval:  h.Poller.Interval().String(),
		LastFetched:   "-",
		LastKind:      "-",
		LastAttempt:   "-",
	}
	if snap, ok := h.Schedules.Current(); ok {
		d.LastFetched = formatTime(snap.FetchedAt)
		d.LastKind = string(snap.View.Kind)
		if snap.View.Repository != nil {
			d.ScheduleCount = len(snap.View.Repository.Schedules)
		}
		d.UnloadableCount = len(snap.View.Unloadable)
	}
	if at, lastErr := h.Schedules.LastAttempt(); !at.IsZero() {
		d.LastAttempt = formatTime(at)
		d.LastError = lastErr
	}

	recent := domain.PageRequest{MaxResults: 10}
	if recs, _, err := h.Refreshes.List(ctx, domain.RefreshFilter{Page: recent}); err == nil {
		for i := range recs {
			d.Refreshes = append(d.Refreshes, refreshRow(recs[i]))
		}
	}
	if entries, _, err := h.Audit.List(ctx, domain.AuditFilter{Page: recent}); err == nil {
		for i := range entries {
			e := entries[i]
			d.Audit = append(d.Audit, auditRowData{
				When:      formatTime(e.CreatedAt),
				Principal: e.PrincipalName,
				Action:    e.Action,
				Target:    stringPtr(e.Target),
				Status:    e.Status,
			})
		}
	}

	renderHTML(w, http.StatusOK, overviewPage(d))
}

func refreshRow(rec domain.RefreshRecord) refreshRowData {
	row := refreshRowData{
		When:     formatTime(rec.CreatedAt),
		Trigger:  rec.Trigger,
		By:       rec.RequestedBy,
		Duration: fmt.Sprintf("%dms", rec.DurationMs),
	}
	if rec.Succeeded() {
		row.Outcome = stringPtr(rec.ViewKind)
		row.Tone = "success"
	} else {
		row.Outcome = "failed"
		row.Tone = "danger"
	}
	return row
}

func (h *Handler) SchedulesPage(w http.ResponseWriter, r *http.Request) {
	selector := h.Schedules.Selector()
	d := schedulesPageData{
		Principal:      principalFromContext(r.Context()),
		Selector:       selector.String(),
		RepositoryName: selector.RepositoryName,
		SchedulesDocs:  docsOpenURL("guides/schedules"),
		UnloadableDocs: docsOpenURL("guides/troubleshooting/unloadable"),
		SchedulerDocs:  docsOpenURL("operations/scheduler-daemon"),
		CSRF:           csrfField(r),
	}

	snap, ok := h.Schedules.Current()
	if !ok {
		renderHTML(w, http.StatusOK, schedulesPage(d))
		return
	}

	view := snap.View
	d.Loaded = true
	d.Kind = view.Kind
	d.Message = view.Message
	d.FetchedAt = formatTime(snap.FetchedAt)
	d.DurationMs = snap.Duration.Milliseconds()
	if at, lastErr := h.Schedules.LastAttempt(); lastErr != "" && at.After(snap.FetchedAt) {
		d.Stale = true
		d.LastError = lastErr
	}

	d.SchedulerKind = view.Scheduler.Kind
	if view.Scheduler.Info != nil {
		d.SchedulerClass = view.Scheduler.Info.Class
	}
	if view.Scheduler.Err != nil {
		d.SchedulerError = view.Scheduler.Err.Message
		d.Stack = view.Scheduler.Err.Stack
	}

	if view.Repository != nil {
		now := time.Now()
		for i := range view.Repository.Schedules {
			d.Rows = append(d.Rows, scheduleRow(view.Repository.Schedules[i], now))
		}
	}
	for i := range view.Unloadable {
		s := view.Unloadable[i]
		d.Unloadable = append(d.Unloadable, unloadableRowData{
			Name:   s.Name,
			Type:   s.JobType,
			Origin: s.RepositoryOrigin,
			Status: s.Status,
		})
	}

	renderHTML(w, http.StatusOK, schedulesPage(d))
}

func scheduleRow(s domain.Schedule, now time.Time) scheduleRowData {
	tz := s.ExecutionTimezone
	if tz == "" {
		tz = "UTC"
	}
	ticks := "-"
	if next, err := schedules.NextTicks(s, now, tickPreviewCount); err == nil && len(next) > 0 {
		parts := make([]string, 0, len(next))
		for _, t := range next {
			parts = append(parts, t.Format("Jan 2 15:04"))
		}
		ticks = strings.Join(parts, ", ")
	}
	tone := ""
	if s.Status == domain.ScheduleStatusRunning {
		tone = "success"
	}
	return scheduleRowData{
		Filter:   s.Name + " " + s.JobName,
		Name:     s.Name,
		Cron:     s.CronSchedule,
		Timezone: tz,
		Job:      s.JobName,
		Ticks:    ticks,
		Status:   s.Status,
		Tone:     tone,
	}
}

func (h *Handler) SchedulesRefresh(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	if _, err := h.Schedules.Refresh(r.Context(), domain.RefreshTriggerManual, principal.Name); err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/ui/schedules", http.StatusSeeOther)
}

func (h *Handler) DocsPage(w http.ResponseWriter, r *http.Request) {
	pinned := h.pinnedVersion(r)
	site := h.Docs.Versions()

	links := make([]docsLinkRowData, 0, len(docs.DefaultLinks))
	for _, l := range docs.DefaultLinks {
		resolved, err := h.Docs.ResolveLink(domain.DocsLinkRequest{Path: l.Path}, pinned)
		if err != nil {
			continue
		}
		links = append(links, docsLinkRowData{Title: l.Title, Path: resolved, OpenURL: docsOpenURL(l.Path)})
	}

	renderHTML(w, http.StatusOK, docsPage(docsPageData{
		Principal: principalFromContext(r.Context()),
		BaseURL:   h.Docs.BaseURL(),
		Versions:  site.All,
		Current:   site.Current,
		Default:   site.Default,
		Pinned:    pinned,
		Links:     links,
		CSRF:      csrfField(r),
	}))
}

func (h *Handler) DocsPin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderServiceError(w, r, domain.ErrValidation("invalid form submission"))
		return
	}
	version := strings.TrimSpace(r.Form.Get("version"))

	cookie := &http.Cookie{
		Name:     docs.VersionCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
	}
	target := "site-current"
	if version == "" {
		cookie.MaxAge = -1
	} else {
		if err := h.Docs.ValidateVersion(version); err != nil {
			h.renderServiceError(w, r, err)
			return
		}
		cookie.Value = version
		cookie.Expires = time.Now().Add(30 * 24 * time.Hour)
		target = version
	}
	http.SetCookie(w, cookie)

	principal := principalFromContext(r.Context())
	_ = h.Audit.Insert(r.Context(), &domain.AuditEntry{
		ID:            domain.NewID(),
		PrincipalName: principal.Name,
		Action:        "docs.pin_version",
		Target:        &target,
		Status:        "success",
		CreatedAt:     time.Now(),
	})
	http.Redirect(w, r, "/ui/docs", http.StatusSeeOther)
}

func (h *Handler) DocsOpen(w http.ResponseWriter, r *http.Request) {
	req := domain.DocsLinkRequest{
		Path:    r.URL.Query().Get("path"),
		Version: strings.TrimSpace(r.URL.Query().Get("version")),
	}
	target, err := h.Docs.ResolveURL(req, h.pinnedVersion(r))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) pinnedVersion(r *http.Request) string {
	cookie, err := r.Cookie(docs.VersionCookie)
	if err != nil {
		return ""
	}
	v := strings.TrimSpace(cookie.Value)
	if v == "" || h.Docs.ValidateVersion(v) != nil {
		return ""
	}
	return v
}

func docsOpenURL(path string) string {
	return "/ui/docs/open?path=" + url.QueryEscape(path)
}

func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."

	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var upstream *domain.UpstreamError
	if errors.As(err, &notFound) {
		status = http.StatusNotFound
		title = "Not Found"
		message = notFound.Error()
	} else if errors.As(err, &accessDenied) {
		status = http.StatusForbidden
		title = "Access Denied"
		message = accessDenied.Error()
	} else if errors.As(err, &validation) {
		status = http.StatusBadRequest
		title = "Invalid Request"
		message = validation.Error()
	} else if errors.As(err, &conflict) {
		status = http.StatusConflict
		title = "Conflict"
		message = conflict.Error()
	} else if errors.As(err, &upstream) {
		status = http.StatusBadGateway
		title = "Orchestrator Unavailable"
		message = upstream.Error()
	}

	_ = r
	renderHTML(w, status, errorPage(title, message))
}
