package domain

import "strings"

// DocsVersionSet is the documentation version context: every published
// version, the version the reader is browsing, and the site default that
// lives at the unversioned root.
type DocsVersionSet struct {
	All     []string
	Current string
	Default string
}

// Contains reports whether v is a published version.
func (s DocsVersionSet) Contains(v string) bool {
	for _, have := range s.All {
		if have == v {
			return true
		}
	}
	return false
}

// Validate checks that the set is coherent.
func (s DocsVersionSet) Validate() error {
	if len(s.All) == 0 {
		return ErrValidation("docs versions list is empty")
	}
	if !s.Contains(s.Current) {
		return ErrValidation("current docs version %q is not in the published set", s.Current)
	}
	if !s.Contains(s.Default) {
		return ErrValidation("default docs version %q is not in the published set", s.Default)
	}
	return nil
}

// DocsLinkRequest asks for the final href of one documentation page.
// Version, when set, overrides the set's current version.
type DocsLinkRequest struct {
	Path    string
	Version string
}

// NormalizeDocsPath reduces a raw docs path to clean logical segments with
// no version anchor: surplus slashes go away and a leading version segment
// is stripped so the path can be re-anchored. A segment counts as a version
// when it is in the published set or merely looks like one (dotted-numeric,
// "latest", "master"); links pasted from retired versions still normalize
// that way.
func NormalizeDocsPath(raw string, versions DocsVersionSet) string {
	segs := splitPathSegments(raw)
	if len(segs) > 0 && (versions.Contains(segs[0]) || versionShaped(segs[0])) {
		segs = segs[1:]
	}
	return strings.Join(segs, "/")
}

// ResolveDocsPath rewrites one docs link against the version context.
//
// The target version is the explicit request version when given, otherwise
// the set's current version. The default version renders unversioned at the
// site root; every other version gets its own leading path segment. The
// result always starts with exactly one slash; an empty path resolves to the
// version root ("/" or "/{version}/").
//
// Pure: identical request and set always yield an identical path.
func ResolveDocsPath(req DocsLinkRequest, versions DocsVersionSet) string {
	normalized := NormalizeDocsPath(req.Path, versions)

	target := req.Version
	if target == "" {
		target = versions.Current
	}

	if target == versions.Default {
		return "/" + normalized
	}
	if normalized == "" {
		return "/" + target + "/"
	}
	return "/" + target + "/" + normalized
}

// splitPathSegments splits on "/" and drops empty segments, collapsing any
// run of slashes.
func splitPathSegments(p string) []string {
	var segs []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

// versionShaped reports whether s has the shape of a docs version: dotted
// groups of digits ("1", "0.9", "1.2.3") or the floating aliases.
func versionShaped(s string) bool {
	if s == "latest" || s == "master" {
		return true
	}
	for _, group := range strings.Split(s, ".") {
		if group == "" {
			return false
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
