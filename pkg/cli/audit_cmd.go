package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCmd(client *Client) *cobra.Command {
	var (
		principal  string
		action     string
		status     string
		since      string
		maxResults int64
		pageToken  string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail, newest first",
		Example: `  flowdeck audit
  flowdeck audit --action apikey.create --status success`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if principal != "" {
				q.Set("principal_name", principal)
			}
			if action != "" {
				q.Set("action", action)
			}
			if status != "" {
				q.Set("status", status)
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
				Entries       []auditEntryPayload `json:"entries"`
				Total         int64               `json:"total"`
				NextPageToken string              `json:"next_page_token"`
			}

			if all {
				items, err := fetchAllPages(client, "GET", "/audit", q, "entries")
				if err != nil {
					return err
				}
				if err := decodePages(items, &list.Entries); err != nil {
					return err
				}
				list.Total = int64(len(list.Entries))
			} else {
				if pageToken != "" {
					q.Set("page_token", pageToken)
				}
				resp, err := client.Do("GET", "/audit", q, nil)
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
				for _, e := range list.Entries {
					fmt.Fprintln(os.Stdout, e.ID)
				}
				return nil
			}

			columns := []string{"at", "principal", "action", "target", "status"}
			rows := make([][]string, 0, len(list.Entries))
			for _, e := range list.Entries {
				target := ""
				if e.Target != nil {
					target = *e.Target
				}
				statusCell := e.Status
				if e.ErrorMessage != nil {
					statusCell = errorColor.Sprint(e.Status + ": " + *e.ErrorMessage)
				}
				rows = append(rows, []string{
					e.CreatedAt.Format(time.RFC3339),
					e.PrincipalName,
					e.Action,
					target,
					statusCell,
				})
			}
			renderTable(os.Stdout, columns, rows)
			if list.NextPageToken != "" {
				fmt.Fprintf(os.Stdout, "\nNext page: --page-token %s\n", list.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "Filter by principal name")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action (for example apikey.create)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (success, error)")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC 3339 timestamp")
	cmd.Flags().Int64Var(&maxResults, "max-results", 0, "Maximum number of results")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Pagination token from a previous response")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	cmd.MarkFlagsMutuallyExclusive("all", "page-token")
	return cmd
}

type auditEntryPayload struct {
	ID            string    `json:"id"`
	PrincipalName string    `json:"principal_name"`
	Action        string    `json:"action"`
	Target        *string   `json:"target"`
	Detail        *string   `json:"detail"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"error_message"`
	CreatedAt     time.Time `json:"created_at"`
}
