// Package docs builds links into the versioned documentation site for the
// console pages and the JSON API.
package docs

import (
	"log/slog"
	"strings"

	"flowdeck/internal/domain"
)

// VersionCookie carries a reader's pinned docs version between requests.
const VersionCookie = "flowdeck_docs_version"

// CuratedLink is one entry on the console's docs page.
type CuratedLink struct {
	Title string
	Path  string
}

// DefaultLinks are the doc pages the console surfaces directly. Paths are
// unversioned; the resolver anchors them to the reader's version.
var DefaultLinks = []CuratedLink{
	{Title: "Getting started", Path: "getting-started"},
	{Title: "Writing schedules", Path: "guides/schedules"},
	{Title: "Execution timezones", Path: "guides/schedules/timezones"},
	{Title: "Troubleshooting unloadable state", Path: "guides/troubleshooting/unloadable"},
	{Title: "Scheduler daemon operations", Path: "operations/scheduler-daemon"},
	{Title: "API reference", Path: "reference/api"},
}

// Service resolves documentation links against the configured site and
// version set.
type Service struct {
	baseURL  string
	versions domain.DocsVersionSet
	logger   *slog.Logger
}

// NewService validates the version set and returns a docs service. baseURL
// is stored without a trailing slash.
func NewService(baseURL string, versions domain.DocsVersionSet, logger *slog.Logger) (*Service, error) {
	if err := versions.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		baseURL:  strings.TrimRight(baseURL, "/"),
		versions: versions,
		logger:   logger.With("component", "docs"),
	}, nil
}

// Versions returns the configured version set.
func (s *Service) Versions() domain.DocsVersionSet {
	return s.versions
}

// BaseURL returns the docs site root without a trailing slash.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// ValidateVersion checks that v may be pinned or requested explicitly.
func (s *Service) ValidateVersion(v string) error {
	if !s.versions.Contains(v) {
		return domain.ErrValidation("docs version %q is not published", v)
	}
	return nil
}

// SessionVersions returns the version set with the current version replaced
// by the reader's pin. An empty or unpublished pin leaves the set unchanged.
func (s *Service) SessionVersions(pinned string) domain.DocsVersionSet {
	set := s.versions
	if pinned != "" && set.Contains(pinned) {
		set.Current = pinned
	}
	return set
}

// ResolveLink resolves one docs link request to a site-relative path,
// honoring the reader's pinned version. An explicit request version must be
// published.
func (s *Service) ResolveLink(req domain.DocsLinkRequest, pinned string) (string, error) {
	if req.Version != "" {
		if err := s.ValidateVersion(req.Version); err != nil {
			return "", err
		}
	}
	return domain.ResolveDocsPath(req, s.SessionVersions(pinned)), nil
}

// ResolveURL is ResolveLink with the site base prepended, for redirects and
// API responses that leave the console.
func (s *Service) ResolveURL(req domain.DocsLinkRequest, pinned string) (string, error) {
	path, err := s.ResolveLink(req, pinned)
	if err != nil {
		return "", err
	}
	return s.baseURL + path, nil
}
