// Package api serves the JSON API under /v1: the resolved schedule view,
// manual refresh, poller status, docs link resolution, API key management,
// and the refresh and audit histories.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"flowdeck/internal/domain"
	"flowdeck/internal/service/docs"
	"flowdeck/internal/service/keys"
	"flowdeck/internal/service/schedules"
)

type Handler struct {
	Schedules *schedules.Service
	Poller    *schedules.Poller
	Docs      *docs.Service
	Keys      *keys.Service
	Audit     domain.AuditRepository
	Refreshes domain.RefreshLogRepository
	Logger    *slog.Logger
}

func NewHandler(
	schedulesSvc *schedules.Service,
	poller *schedules.Poller,
	docsSvc *docs.Service,
	keysSvc *keys.Service,
	audit domain.AuditRepository,
	refreshes domain.RefreshLogRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		Schedules: schedulesSvc,
		Poller:    poller,
		Docs:      docsSvc,
		Keys:      keysSvc,
		Audit:     audit,
		Refreshes: refreshes,
		Logger:    logger.With("component", "api"),
	}
}

func pageFromRequest(r *http.Request) domain.PageRequest {
	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			maxResults = parsed
		}
	}
	return domain.PageRequest{
		MaxResults: maxResults,
		PageToken:  r.URL.Query().Get("page_token"),
	}
}

func principalFromContext(ctx context.Context) domain.ContextPrincipal {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ContextPrincipal{Name: "unknown", Type: "user"}
	}
	return p
}
