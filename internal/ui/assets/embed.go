// Package assets embeds the static files the console serves under
// /ui/static/.
package assets

import "embed"

//go:embed static
var staticFS embed.FS

// StaticFS exposes the embedded tree rooted at "static".
func StaticFS() embed.FS {
	return staticFS
}
