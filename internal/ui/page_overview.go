package ui

import (
	"fmt"

	"flowdeck/internal/domain"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

type refreshRowData struct {
	When     string
	Trigger  string
	By       string
	Outcome  string
	Tone     string
	Duration string
}

type auditRowData struct {
	When      string
	Principal string
	Action    string
	Target    string
	Status    string
}

type overviewPageData struct {
	Principal       domain.ContextPrincipal
	Selector        string
	PollerRunning   bool
	PollInterval    string
	LastFetched     string
	LastKind        string
	ScheduleCount   int
	UnloadableCount int
	LastAttempt     string
	LastError       string
	Refreshes       []refreshRowData
	Audit           []auditRowData
}

func overviewPage(d overviewPageData) gomponents.Node {
	pollerState := statusLabel("stopped", "attention")
	if d.PollerRunning {
		pollerState = statusLabel("running", "success")
	}

	pollerNodes := []gomponents.Node{
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Poller")),
		html.P(pollerState, gomponents.Text(" Interval "+d.PollInterval+".")),
		html.P(html.Class(mutedClass()), gomponents.Text("Last snapshot: "+d.LastFetched)),
		html.P(html.Class(mutedClass()+" mb-0"), gomponents.Text("Last attempt: "+d.LastAttempt)),
	}
	if d.LastError != "" {
		pollerNodes = append(pollerNodes, html.P(html.Class("color-fg-danger text-small mb-0"), gomponents.Text("Last error: "+d.LastError)))
	}
	pollerCard := html.Div(html.Class(cardClass()), gomponents.Group(pollerNodes))

	repoCard := html.Div(
		html.Class(cardClass()),
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Repository")),
		html.P(html.Strong(gomponents.Text(d.Selector))),
		html.P(html.Class(mutedClass()), gomponents.Text("View: "+d.LastKind)),
		html.P(html.Class(mutedClass()+" mb-0"), gomponents.Text(fmt.Sprintf("%d schedules, %d unloadable.", d.ScheduleCount, d.UnloadableCount))),
		html.A(html.Href("/ui/schedules"), gomponents.Text("Open schedules ->")),
	)

	refreshRows := make([]gomponents.Node, 0, len(d.Refreshes))
	for i := range d.Refreshes {
		row := d.Refreshes[i]
		refreshRows = append(refreshRows, html.Tr(html.Td(gomponents.Text(row.When)), html.Td(gomponents.Text(row.Trigger)), html.Td(gomponents.Text(row.By)), html.Td(statusLabel(row.Outcome, row.Tone)), html.Td(gomponents.Text(row.Duration))))
	}
	refreshCard := html.Div(
		html.Class(cardClass("table-wrap")),
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Recent refreshes")),
		html.Table(html.THead(html.Tr(html.Th(gomponents.Text("When")), html.Th(gomponents.Text("Trigger")), html.Th(gomponents.Text("By")), html.Th(gomponents.Text("Outcome")), html.Th(gomponents.Text("Duration")))), html.TBody(gomponents.Group(refreshRows))),
	)
	if len(d.Refreshes) == 0 {
		refreshCard = emptyStateCard("No refreshes recorded yet.", "", "")
	}

	auditRows := make([]gomponents.Node, 0, len(d.Audit))
	for i := range d.Audit {
		row := d.Audit[i]
		auditRows = append(auditRows, html.Tr(html.Td(gomponents.Text(row.When)), html.Td(gomponents.Text(row.Principal)), html.Td(html.Code(gomponents.Text(row.Action))), html.Td(gomponents.Text(row.Target)), html.Td(gomponents.Text(row.Status))))
	}
	auditCard := html.Div(
		html.Class(cardClass("table-wrap")),
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Recent activity")),
		html.Table(html.THead(html.Tr(html.Th(gomponents.Text("When")), html.Th(gomponents.Text("Principal")), html.Th(gomponents.Text("Action")), html.Th(gomponents.Text("Target")), html.Th(gomponents.Text("Status")))), html.TBody(gomponents.Group(auditRows))),
	)
	if len(d.Audit) == 0 {
		auditCard = emptyStateCard("No activity recorded yet.", "", "")
	}

	return appPage(
		"Overview",
		"home",
		d.Principal,
		html.Div(html.Class("grid"), pollerCard, repoCard),
		refreshCard,
		auditCard,
	)
}
