// Package ui serves the server-rendered operator console under /ui.
// Pages are gomponents trees styled with Primer css; interactivity that
// needs client state (quick filters) uses datastar signals.
package ui

import (
	"context"
	"net/http"

	"flowdeck/internal/config"
	"flowdeck/internal/domain"
	"flowdeck/internal/service/docs"
	"flowdeck/internal/service/schedules"

	gomponents "maragu.dev/gomponents"
)

type Handler struct {
	Schedules  *schedules.Service
	Poller     *schedules.Poller
	Docs       *docs.Service
	Audit      domain.AuditRepository
	Refreshes  domain.RefreshLogRepository
	Auth       config.AuthConfig
	Production bool
}

func NewHandler(
	schedulesSvc *schedules.Service,
	poller *schedules.Poller,
	docsSvc *docs.Service,
	audit domain.AuditRepository,
	refreshes domain.RefreshLogRepository,
	auth config.AuthConfig,
	production bool,
) *Handler {
	return &Handler{
		Schedules:  schedulesSvc,
		Poller:     poller,
		Docs:       docsSvc,
		Audit:      audit,
		Refreshes:  refreshes,
		Auth:       auth,
		Production: production,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func principalFromContext(ctx context.Context) domain.ContextPrincipal {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.ContextPrincipal{Name: "unknown", Type: "user"}
	}
	return p
}
