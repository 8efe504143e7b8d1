package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type scheduleViewPayload struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Repository *struct {
		Name         string `json:"name"`
		LocationName string `json:"location_name"`
		Schedules    []struct {
			Name              string      `json:"name"`
			CronSchedule      string      `json:"cron_schedule"`
			JobName           string      `json:"job_name"`
			ExecutionTimezone string      `json:"execution_timezone"`
			Description       string      `json:"description"`
			Status            string      `json:"status"`
			NextTicks         []time.Time `json:"next_ticks"`
		} `json:"schedules"`
	} `json:"repository"`
	Scheduler *struct {
		Kind    string `json:"kind"`
		Class   string `json:"class"`
		Message string `json:"message"`
	} `json:"scheduler"`
	Unloadable []struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		JobType          string `json:"job_type"`
		Status           string `json:"status"`
		RepositoryOrigin string `json:"repository_origin"`
	} `json:"unloadable"`
	FetchedAt       time.Time `json:"fetched_at"`
	FetchDurationMs int64     `json:"fetch_duration_ms"`
	Stale           bool      `json:"stale"`
	LastError       string    `json:"last_error"`
}

func newSchedulesCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Inspect and refresh the schedule view",
	}
	cmd.AddCommand(newSchedulesViewCmd(client))
	cmd.AddCommand(newSchedulesRefreshCmd(client))
	return cmd
}

func newSchedulesViewCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the current schedule view",
		Long:  "Show the most recently fetched schedule view for the configured repository.",
		Example: `  flowdeck schedules view
  flowdeck schedules view --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := client.Do("GET", "/schedules/view", nil, nil)
			if err != nil {
				return err
			}
			if err := CheckError(resp); err != nil {
				return err
			}
			return renderScheduleView(cmd, resp)
		},
	}
}

func newSchedulesRefreshCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fresh schedule state from the orchestrator",
		Long:  "Trigger an immediate refresh and show the newly resolved view.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := client.Do("POST", "/schedules/refresh", nil, nil)
			if err != nil {
				return err
			}
			if err := CheckError(resp); err != nil {
				return err
			}
			return renderScheduleView(cmd, resp)
		},
	}
}

func renderScheduleView(cmd *cobra.Command, resp *http.Response) error {
	respBody, err := ReadBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if getOutputFormat(cmd) == "json" {
		var raw interface{}
		if err := json.Unmarshal(respBody, &raw); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return printJSON(os.Stdout, raw)
	}

	var view scheduleViewPayload
	if err := json.Unmarshal(respBody, &view); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if isQuiet(cmd) {
		if view.Repository != nil {
			for _, s := range view.Repository.Schedules {
				fmt.Fprintln(os.Stdout, s.Name)
			}
		}
		return nil
	}

	switch view.Kind {
	case "BACKEND_ERROR":
		fmt.Fprintf(os.Stdout, "%s %s\n", colorizeStatus("BACKEND_ERROR"), view.Message)
	case "STATES_ERROR":
		fmt.Fprintf(os.Stdout, "%s %s\n", colorizeStatus("STATES_ERROR"), view.Message)
	case "REPOSITORY_MISSING":
		fmt.Fprintln(os.Stdout, "Repository was not found in the orchestrator. Check the selector or reload the code location.")
	case "EMPTY":
		fmt.Fprintln(os.Stdout, "Repository defines no schedules.")
	case "TABLE":
		renderScheduleTable(&view)
	default:
		fmt.Fprintf(os.Stdout, "unrecognized view kind %q\n", view.Kind)
	}

	if len(view.Unloadable) > 0 {
		fmt.Fprintln(os.Stdout)
		boldText.Fprintln(os.Stdout, "Unloadable schedule states")
		columns := []string{"id", "name", "type", "status"}
		rows := make([][]string, 0, len(view.Unloadable))
		for _, s := range view.Unloadable {
			rows = append(rows, []string{s.ID, s.Name, s.JobType, colorizeStatus(s.Status)})
		}
		renderTable(os.Stdout, columns, rows)
	}

	if view.Stale {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintf(os.Stdout, "%s last refresh failed: %s\n", colorizeStatus("STALE"), view.LastError)
	}
	fmt.Fprintf(os.Stdout, "\nFetched %s (%dms)\n", view.FetchedAt.Format(time.RFC3339), view.FetchDurationMs)
	return nil
}

func renderScheduleTable(view *scheduleViewPayload) {
	repo := view.Repository
	if repo == nil {
		return
	}
	boldText.Fprintf(os.Stdout, "Schedules in %s@%s\n", repo.Name, repo.LocationName)
	if view.Scheduler != nil && view.Scheduler.Message != "" {
		fmt.Fprintf(os.Stdout, "%s scheduler: %s\n", colorizeStatus("ERROR"), view.Scheduler.Message)
	}

	columns := []string{"name", "schedule", "job", "timezone", "status", "next tick"}
	rows := make([][]string, 0, len(repo.Schedules))
	for _, s := range repo.Schedules {
		tz := s.ExecutionTimezone
		if tz == "" {
			tz = "UTC"
		}
		rows = append(rows, []string{
			s.Name,
			s.CronSchedule,
			s.JobName,
			tz,
			colorizeStatus(s.Status),
			formatNextTick(s.NextTicks),
		})
	}
	renderTable(os.Stdout, columns, rows)
}

func formatNextTick(ticks []time.Time) string {
	if len(ticks) == 0 {
		return ""
	}
	first := ticks[0].Format(time.RFC3339)
	if len(ticks) == 1 {
		return first
	}
	return first + fmt.Sprintf(" (+%d more)", len(ticks)-1)
}
