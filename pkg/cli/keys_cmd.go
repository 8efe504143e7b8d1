package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type apiKeyPayload struct {
	ID            string     `json:"id"`
	PrincipalName string     `json:"principal_name"`
	Name          string     `json:"name"`
	KeyPrefix     string     `json:"key_prefix"`
	IsAdmin       bool       `json:"is_admin"`
	ExpiresAt     *time.Time `json:"expires_at"`
	LastUsedAt    *time.Time `json:"last_used_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newKeysCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys (admin only)",
	}
	cmd.AddCommand(newKeysCreateCmd(client))
	cmd.AddCommand(newKeysListCmd(client))
	cmd.AddCommand(newKeysDeleteCmd(client))
	return cmd
}

func newKeysCreateCmd(client *Client) *cobra.Command {
	var (
		keyName   string
		isAdmin   bool
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <principal>",
		Short: "Create an API key for a principal",
		Long:  "Create an API key. The secret is printed exactly once and cannot be recovered afterwards.",
		Example: `  flowdeck keys create deploy-bot --name ci
  flowdeck keys create ops --name oncall --admin --expires-in 720h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{
				"principal_name": args[0],
				"name":           keyName,
				"is_admin":       isAdmin,
			}
			if expiresIn > 0 {
				body["expires_at"] = time.Now().Add(expiresIn).UTC().Format(time.RFC3339)
			}

			resp, err := client.Do("POST", "/apikeys", nil, body)
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

			var created struct {
				apiKeyPayload
				Key string `json:"key"`
			}
			if err := json.Unmarshal(respBody, &created); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				var raw interface{}
				if err := json.Unmarshal(respBody, &raw); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				return printJSON(os.Stdout, raw)
			}
			if isQuiet(cmd) {
				fmt.Fprintln(os.Stdout, created.Key)
				return nil
			}

			printDetail(os.Stdout, map[string]interface{}{
				"id":        created.ID,
				"principal": created.PrincipalName,
				"name":      created.Name,
				"prefix":    created.KeyPrefix,
				"admin":     created.IsAdmin,
			})
			fmt.Fprintln(os.Stdout)
			boldText.Fprintf(os.Stdout, "Key: %s\n", created.Key)
			fmt.Fprintln(os.Stdout, attentionColor.Sprint("Store this key now. It is shown only once."))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyName, "name", "", "Display name for the key")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant admin privileges")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Expire the key after this duration (for example 720h)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newKeysListCmd(client *Client) *cobra.Command {
	var (
		maxResults int64
		pageToken  string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if maxResults > 0 {
				q.Set("max_results", fmt.Sprintf("%d", maxResults))
			}

			var list struct {
				APIKeys       []apiKeyPayload `json:"api_keys"`
				Total         int64           `json:"total"`
				NextPageToken string          `json:"next_page_token"`
			}

			if all {
				items, err := fetchAllPages(client, "GET", "/apikeys", q, "api_keys")
				if err != nil {
					return err
				}
				if err := decodePages(items, &list.APIKeys); err != nil {
					return err
				}
				list.Total = int64(len(list.APIKeys))
			} else {
				if pageToken != "" {
					q.Set("page_token", pageToken)
				}
				resp, err := client.Do("GET", "/apikeys", q, nil)
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
				for _, k := range list.APIKeys {
					fmt.Fprintln(os.Stdout, k.ID)
				}
				return nil
			}

			columns := []string{"id", "principal", "name", "prefix", "admin", "expires", "last used"}
			rows := make([][]string, 0, len(list.APIKeys))
			for _, k := range list.APIKeys {
				rows = append(rows, []string{
					k.ID,
					k.PrincipalName,
					k.Name,
					k.KeyPrefix,
					fmt.Sprintf("%t", k.IsAdmin),
					formatOptionalTime(k.ExpiresAt),
					formatOptionalTime(k.LastUsedAt),
				})
			}
			renderTable(os.Stdout, columns, rows)
			if list.NextPageToken != "" {
				fmt.Fprintf(os.Stdout, "\nNext page: --page-token %s\n", list.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxResults, "max-results", 0, "Maximum number of results")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Pagination token from a previous response")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	cmd.MarkFlagsMutuallyExclusive("all", "page-token")
	return cmd
}

func newKeysDeleteCmd(client *Client) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <key-id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprintf(os.Stdout, "Delete API key %s? [y/N]: ", args[0])
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(os.Stdout, "Aborted.")
					return nil
				}
			}

			resp, err := client.Do("DELETE", "/apikeys/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			if err := CheckError(resp); err != nil {
				return err
			}
			_ = resp.Body.Close()

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(os.Stdout, "Deleted API key %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
