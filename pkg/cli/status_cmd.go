package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type statusPayload struct {
	Repository      string     `json:"repository"`
	PollerRunning   bool       `json:"poller_running"`
	PollInterval    string     `json:"poll_interval"`
	LastFetchedAt   *time.Time `json:"last_fetched_at"`
	LastViewKind    string     `json:"last_view_kind"`
	ScheduleCount   int        `json:"schedule_count"`
	UnloadableCount int        `json:"unloadable_count"`
	LastAttemptAt   *time.Time `json:"last_attempt_at"`
	LastError       string     `json:"last_error"`
}

func newStatusCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show poller health and snapshot shape",
		Example: `  flowdeck status
  flowdeck status --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := client.Do("GET", "/status", nil, nil)
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

			if getOutputFormat(cmd) == "json" {
				var raw interface{}
				if err := json.Unmarshal(respBody, &raw); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				return printJSON(os.Stdout, raw)
			}

			var status statusPayload
			if err := json.Unmarshal(respBody, &status); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			poller := "STOPPED"
			if status.PollerRunning {
				poller = "RUNNING"
			}
			fields := map[string]interface{}{
				"repository":    status.Repository,
				"poller":        colorizeStatus(poller),
				"poll interval": status.PollInterval,
			}
			if status.LastFetchedAt != nil {
				fields["last fetched"] = status.LastFetchedAt.Format(time.RFC3339)
				fields["view kind"] = status.LastViewKind
				fields["schedules"] = status.ScheduleCount
				fields["unloadable"] = status.UnloadableCount
			}
			if status.LastError != "" {
				fields["last error"] = errorColor.Sprint(status.LastError)
				if status.LastAttemptAt != nil {
					fields["failed at"] = status.LastAttemptAt.Format(time.RFC3339)
				}
			}
			printDetail(os.Stdout, fields)
			return nil
		},
	}
}
