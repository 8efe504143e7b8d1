package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flowdeck/internal/ui/assets"
)

func MountRoutes(r chi.Router, h *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Post("/logout", h.Logout)

	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.CookieHeaderBridge)
		r.Use(authMiddleware)
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)
		r.Get("/", h.Home)
		r.Get("/schedules", h.SchedulesPage)
		r.Post("/schedules/refresh", h.SchedulesRefresh)
		r.Get("/docs", h.DocsPage)
		r.Post("/docs/pin", h.DocsPin)
		r.Get("/docs/open", h.DocsOpen)
	})
}
