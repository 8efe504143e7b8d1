package api

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the /v1 endpoints. Authentication middleware is
// applied by the caller; every route here assumes a resolved principal.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schedules/view", h.GetScheduleView)
		r.Post("/schedules/refresh", h.TriggerRefresh)
		r.Get("/status", h.GetStatus)

		r.Get("/docs/link", h.GetDocsLink)
		r.Get("/docs/versions", h.ListDocsVersions)

		r.Post("/apikeys", h.CreateAPIKey)
		r.Get("/apikeys", h.ListAPIKeys)
		r.Delete("/apikeys/{keyID}", h.DeleteAPIKey)

		r.Get("/refreshes", h.ListRefreshes)
		r.Get("/audit", h.ListAudit)
	})
}
