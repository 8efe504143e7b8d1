package ui

import (
	"fmt"
	"strings"

	"flowdeck/internal/domain"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"
)

type scheduleRowData struct {
	Filter   string
	Name     string
	Cron     string
	Timezone string
	Job      string
	Ticks    string
	Status   string
	Tone     string
}

type unloadableRowData struct {
	Name   string
	Type   string
	Origin string
	Status string
}

type schedulesPageData struct {
	Principal       domain.ContextPrincipal
	Loaded          bool
	Kind            domain.ScheduleViewKind
	Message         string
	Stack           []string
	Selector        string
	RepositoryName  string
	SchedulerKind   domain.SchedulerOutcomeKind
	SchedulerClass  string
	SchedulerError  string
	Rows            []scheduleRowData
	Unloadable      []unloadableRowData
	FetchedAt       string
	DurationMs      int64
	Stale           bool
	LastError       string
	SchedulesDocs   string
	UnloadableDocs  string
	SchedulerDocs   string
	CSRF            gomponents.Node
}

func schedulesPage(d schedulesPageData) gomponents.Node {
	body := []gomponents.Node{snapshotCard(d)}

	if !d.Loaded {
		body = append(body, emptyStateCard("Schedule state has not been fetched from the orchestrator yet. Trigger a refresh or wait for the next poll.", "", ""))
		return appPage("Schedules", "schedules", d.Principal, body...)
	}

	switch d.Kind {
	case domain.ScheduleViewBackendError:
		body = append(body, backendErrorCard("Repository failed to load", d.Message, d.Stack))
	case domain.ScheduleViewStatesError:
		body = append(body, backendErrorCard("Schedule states failed to load", d.Message, d.Stack))
	case domain.ScheduleViewRepositoryMissing:
		body = append(body, emptyStateCard(fmt.Sprintf("Repository %s was not found in the orchestrator. Check the selector or reload the code location.", d.Selector), "Troubleshooting docs", d.UnloadableDocs))
	case domain.ScheduleViewEmpty:
		body = append(body, emptyStateCard(fmt.Sprintf("Repository %s defines no schedules.", d.RepositoryName), "Writing schedules", d.SchedulesDocs))
	default:
		body = append(body, quickFilterCard("Filter by schedule or job name"))
		body = append(body, scheduleTableCard(d.Rows))
		body = append(body, schedulerCard(d))
	}

	if len(d.Unloadable) > 0 {
		body = append(body, unloadableCard(d.Unloadable, d.UnloadableDocs))
	}

	return appPage("Schedules", "schedules", d.Principal, body...)
}

func snapshotCard(d schedulesPageData) gomponents.Node {
	meta := gomponents.Node(html.P(html.Class(mutedClass()+" mb-0"), gomponents.Text("No snapshot yet.")))
	if d.Loaded {
		line := fmt.Sprintf("Fetched at %s in %dms.", d.FetchedAt, d.DurationMs)
		nodes := []gomponents.Node{gomponents.Text(line)}
		if d.Stale {
			nodes = append(nodes, gomponents.Text(" "), statusLabel("stale", "attention"), gomponents.Text(" Last refresh failed: "+d.LastError))
		}
		meta = html.P(html.Class(mutedClass()+" mb-0"), gomponents.Group(nodes))
	}
	return html.Div(
		html.Class(cardClass("toolbar")),
		html.Div(
			html.Class("d-flex flex-justify-between flex-items-center flex-wrap gap-2"),
			html.Div(
				html.P(html.Class("mb-1"), html.Strong(gomponents.Text(d.Selector))),
				meta,
			),
			html.Form(
				html.Method("post"),
				html.Action("/ui/schedules/refresh"),
				d.CSRF,
				html.Button(html.Type("submit"), html.Class(primaryButtonClass()), gomponents.Text("Refresh now")),
			),
		),
	)
}

func scheduleTableCard(rows []scheduleRowData) gomponents.Node {
	tableRows := make([]gomponents.Node, 0, len(rows))
	for i := range rows {
		row := rows[i]
		tableRows = append(tableRows, html.Tr(data.Show(containsExpr(row.Filter)), html.Td(html.Strong(gomponents.Text(row.Name))), html.Td(html.Code(gomponents.Text(row.Cron))), html.Td(gomponents.Text(row.Timezone)), html.Td(gomponents.Text(row.Job)), html.Td(gomponents.Text(row.Ticks)), html.Td(statusLabel(row.Status, row.Tone))))
	}
	return html.Div(html.Class(cardClass("table-wrap")), html.Table(html.THead(html.Tr(html.Th(gomponents.Text("Schedule")), html.Th(gomponents.Text("Cron")), html.Th(gomponents.Text("Timezone")), html.Th(gomponents.Text("Job")), html.Th(gomponents.Text("Next ticks")), html.Th(gomponents.Text("Status")))), html.TBody(gomponents.Group(tableRows))))
}

func schedulerCard(d schedulesPageData) gomponents.Node {
	switch d.SchedulerKind {
	case domain.SchedulerRunning:
		return html.Div(html.Class(cardClass()), html.P(html.Class(mutedClass()+" mb-0"), gomponents.Text(fmt.Sprintf("Scheduler %s is running. Ticks fire in each schedule's execution timezone, UTC when unset.", d.SchedulerClass))))
	case domain.SchedulerNotDefined:
		return html.Div(
			html.Class(cardClass()),
			html.P(html.Class("mb-1"), statusLabel("no scheduler", "attention"), gomponents.Text(" No scheduler is configured for this instance, so schedules will not fire.")),
			html.P(html.Class(mutedClass()+" mb-0"), html.A(html.Href(d.SchedulerDocs), gomponents.Text("Scheduler daemon operations ->"))),
		)
	case domain.SchedulerError:
		return backendErrorCard("Scheduler state could not be loaded", d.SchedulerError, nil)
	}
	return nil
}

func backendErrorCard(title, message string, stack []string) gomponents.Node {
	nodes := []gomponents.Node{
		html.H2(html.Class("h4 mb-2"), statusLabel("error", "danger"), gomponents.Text(" "+title)),
		html.P(gomponents.Text(message)),
	}
	if len(stack) > 0 {
		// Frames arrive preformatted with trailing newlines.
		frames := strings.Join(stack, "")
		nodes = append(nodes, html.Details(
			html.Summary(html.Class(secondaryButtonClass()+" btn-sm"), gomponents.Text("Stack trace")),
			html.Pre(html.Class("stack-trace"), gomponents.Text(frames)),
		))
	}
	return html.Div(html.Class(cardClass("flash-error")), gomponents.Group(nodes))
}

func unloadableCard(rows []unloadableRowData, docsURL string) gomponents.Node {
	tableRows := make([]gomponents.Node, 0, len(rows))
	for i := range rows {
		row := rows[i]
		tableRows = append(tableRows, html.Tr(html.Td(html.Strong(gomponents.Text(row.Name))), html.Td(gomponents.Text(row.Type)), html.Td(gomponents.Text(row.Origin)), html.Td(statusLabel(row.Status, "attention"))))
	}
	return html.Div(
		html.Class(cardClass("table-wrap")),
		html.H2(html.Class("h4 mb-2"), gomponents.Text("Unloadable schedules")),
		html.P(html.Class(mutedClass()), gomponents.Text("These schedules have state in the instance database but are missing from the loaded repository. They keep their stored state and do not fire until the definition is restored or the state is wiped.")),
		html.Table(html.THead(html.Tr(html.Th(gomponents.Text("Name")), html.Th(gomponents.Text("Type")), html.Th(gomponents.Text("Origin")), html.Th(gomponents.Text("Status")))), html.TBody(gomponents.Group(tableRows))),
		html.P(html.Class(mutedClass()+" mb-0"), html.A(html.Href(docsURL), gomponents.Text("Troubleshooting unloadable state ->"))),
	)
}
