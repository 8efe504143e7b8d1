package ui

import (
	"flowdeck/internal/domain"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

type docsLinkRowData struct {
	Title   string
	Path    string
	OpenURL string
}

type docsPageData struct {
	Principal domain.ContextPrincipal
	BaseURL   string
	Versions  []string
	Current   string
	Default   string
	Pinned    string
	Links     []docsLinkRowData
	CSRF      gomponents.Node
}

func docsPage(d docsPageData) gomponents.Node {
	options := []gomponents.Node{
		html.Option(html.Value(""), gomponents.If(d.Pinned == "", html.Selected()), gomponents.Text("Site current ("+d.Current+")")),
	}
	for _, v := range d.Versions {
		opt := html.Option(html.Value(v), gomponents.If(v == d.Pinned, html.Selected()), gomponents.Text(versionOptionLabel(v, d.Default)))
		options = append(options, opt)
	}

	versionCard := html.Div(
		html.Class(cardClass("toolbar")),
		html.Form(
			html.Method("post"),
			html.Action("/ui/docs/pin"),
			html.Class("d-flex flex-items-center gap-2 flex-wrap"),
			d.CSRF,
			html.Label(html.For("docs-version"), gomponents.Text("Docs version")),
			html.Select(html.ID("docs-version"), html.Name("version"), html.Class("form-select"), gomponents.Group(options)),
			html.Button(html.Type("submit"), html.Class(secondaryButtonClass()), gomponents.Text("Pin")),
			html.P(html.Class(mutedClass()+" mb-0"), gomponents.Text("Links below resolve against the pinned version; the site default version gets unprefixed paths.")),
		),
	)

	linkRows := make([]gomponents.Node, 0, len(d.Links))
	for i := range d.Links {
		row := d.Links[i]
		linkRows = append(linkRows, html.Tr(html.Td(html.A(html.Href(row.OpenURL), gomponents.Text(row.Title))), html.Td(html.Code(gomponents.Text(row.Path)))))
	}
	linksCard := html.Div(
		html.Class(cardClass("table-wrap")),
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Documentation")),
		html.P(html.Class(mutedClass()), gomponents.Text("Served from "+d.BaseURL+".")),
		html.Table(html.THead(html.Tr(html.Th(gomponents.Text("Page")), html.Th(gomponents.Text("Resolved path")))), html.TBody(gomponents.Group(linkRows))),
	)

	return appPage("Docs", "docs", d.Principal, versionCard, linksCard)
}

func versionOptionLabel(v, defaultVersion string) string {
	if v == defaultVersion {
		return v + " (default)"
	}
	return v
}
