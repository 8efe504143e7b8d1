package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(client *Client) *cobra.Command {
	var (
		trigger    string
		since      string
		maxResults int64
		pageToken  string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the refresh history, newest first",
		Example: `  flowdeck history
  flowdeck history --trigger MANUAL --since 2026-08-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if trigger != "" {
				q.Set("trigger", trigger)
			}
			if since != "" {
				if _, err := time.Parse(time.RFC3339, since); err != nil {
					return fmt.Errorf("invalid --since value %q: expected RFC 3339", since)
				}
				q.Set("since", since)
			}
			if maxResults > 0 {
				q.Set("max_results", fmt.Sprintf("%d", maxResults))
			}

			var list struct {
				Refreshes     []refreshRecordPayload `json:"refreshes"`
				Total         int64                  `json:"total"`
				NextPageToken string                 `json:"next_page_token"`
			}

			if all {
				items, err := fetchAllPages(client, "GET", "/refreshes", q, "refreshes")
				if err != nil {
					return err
				}
				if err := decodePages(items, &list.Refreshes); err != nil {
					return err
				}
				list.Total = int64(len(list.Refreshes))
			} else {
				if pageToken != "" {
					q.Set("page_token", pageToken)
				}
				resp, err := client.Do("GET", "/refreshes", q, nil)
				if err != nil {
					return err
				}
				if err := CheckError(resp); err != nil {
					return err
				}
				respBody, err := ReadBody(resp)
				if err != nil {
					return fmt.Errorf("read response: %w", err)
				}
				if err := json.Unmarshal(respBody, &list); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, list)
			}
			if isQuiet(cmd) {
				for _, rec := range list.Refreshes {
					fmt.Fprintln(os.Stdout, rec.ID)
				}
				return nil
			}

			columns := []string{"at", "trigger", "by", "result", "schedules", "unloadable", "ms"}
			rows := make([][]string, 0, len(list.Refreshes))
			for _, rec := range list.Refreshes {
				result := ""
				switch {
				case rec.ErrorMessage != nil:
					result = errorColor.Sprint("failed: " + *rec.ErrorMessage)
				case rec.ViewKind != nil:
					result = *rec.ViewKind
				}
				rows = append(rows, []string{
					rec.CreatedAt.Format(time.RFC3339),
					rec.Trigger,
					rec.RequestedBy,
					result,
					fmt.Sprintf("%d", rec.ScheduleCount),
					fmt.Sprintf("%d", rec.UnloadableCount),
					fmt.Sprintf("%d", rec.DurationMs),
				})
			}
			renderTable(os.Stdout, columns, rows)
			if list.NextPageToken != "" {
				fmt.Fprintf(os.Stdout, "\nNext page: --page-token %s\n", list.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", "", "Filter by trigger (MANUAL, POLL)")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC 3339 timestamp")
	cmd.Flags().Int64Var(&maxResults, "max-results", 0, "Maximum number of results")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Pagination token from a previous response")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	cmd.MarkFlagsMutuallyExclusive("all", "page-token")
	return cmd
}

type refreshRecordPayload struct {
	ID              string    `json:"id"`
	Trigger         string    `json:"trigger"`
	RequestedBy     string    `json:"requested_by"`
	ViewKind        *string   `json:"view_kind"`
	ErrorMessage    *string   `json:"error_message"`
	ScheduleCount   int       `json:"schedule_count"`
	UnloadableCount int       `json:"unloadable_count"`
	DurationMs      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}
