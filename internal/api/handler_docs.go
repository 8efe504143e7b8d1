package api

import (
	"net/http"

	"flowdeck/internal/domain"
	"flowdeck/internal/service/docs"
)

type docsLinkResponse struct {
	Path    string `json:"path"`
	URL     string `json:"url"`
	Version string `json:"version"`
}

type docsVersionsResponse struct {
	Versions []string `json:"versions"`
	Current  string   `json:"current"`
	Default  string   `json:"default"`
	Pinned   string   `json:"pinned,omitempty"`
}

// pinnedDocsVersion reads the reader's pinned version cookie, if any.
func pinnedDocsVersion(r *http.Request) string {
	cookie, err := r.Cookie(docs.VersionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetDocsLink resolves a raw docs path against the version set: default
// version links stay unversioned, others gain a version prefix.
func (h *Handler) GetDocsLink(w http.ResponseWriter, r *http.Request) {
	req := domain.DocsLinkRequest{
		Path:    r.URL.Query().Get("path"),
		Version: r.URL.Query().Get("version"),
	}
	pinned := pinnedDocsVersion(r)

	path, err := h.Docs.ResolveLink(req, pinned)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	version := req.Version
	if version == "" {
		version = h.Docs.SessionVersions(pinned).Current
	}
	writeJSON(w, http.StatusOK, docsLinkResponse{
		Path:    path,
		URL:     h.Docs.BaseURL() + path,
		Version: version,
	})
}

// ListDocsVersions returns the published version set and the caller's pin.
func (h *Handler) ListDocsVersions(w http.ResponseWriter, r *http.Request) {
	set := h.Docs.Versions()
	pinned := pinnedDocsVersion(r)
	if !set.Contains(pinned) {
		pinned = ""
	}
	writeJSON(w, http.StatusOK, docsVersionsResponse{
		Versions: set.All,
		Current:  set.Current,
		Default:  set.Default,
		Pinned:   pinned,
	})
}
