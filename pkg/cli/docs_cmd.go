package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newDocsCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Resolve documentation links and list published versions",
	}
	cmd.AddCommand(newDocsLinkCmd(client))
	cmd.AddCommand(newDocsVersionsCmd(client))
	return cmd
}

func newDocsLinkCmd(client *Client) *cobra.Command {
	var docsVersion string

	cmd := &cobra.Command{
		Use:   "link <path>",
		Short: "Resolve a docs path to a versioned URL",
		Long:  "Resolve a raw documentation path against the published version set. Links to the default version stay unversioned; other versions gain a version prefix.",
		Example: `  flowdeck docs link overview/schedules
  flowdeck docs link /1.1/overview/schedules --version 1.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("path", args[0])
			if docsVersion != "" {
				q.Set("version", docsVersion)
			}

			resp, err := client.Do("GET", "/docs/link", q, nil)
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

			var link struct {
				Path    string `json:"path"`
				URL     string `json:"url"`
				Version string `json:"version"`
			}
			if err := json.Unmarshal(respBody, &link); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, link)
			}
			if isQuiet(cmd) {
				fmt.Fprintln(os.Stdout, link.URL)
				return nil
			}
			printDetail(os.Stdout, map[string]interface{}{
				"path":    link.Path,
				"url":     link.URL,
				"version": link.Version,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&docsVersion, "version", "", "Resolve against a specific docs version")
	return cmd
}

func newDocsVersionsCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List published docs versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := client.Do("GET", "/docs/versions", nil, nil)
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

			var set struct {
				Versions []string `json:"versions"`
				Current  string   `json:"current"`
				Default  string   `json:"default"`
				Pinned   string   `json:"pinned"`
			}
			if err := json.Unmarshal(respBody, &set); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, set)
			}

			columns := []string{"version", "notes"}
			rows := make([][]string, 0, len(set.Versions))
			for _, v := range set.Versions {
				notes := ""
				if v == set.Current {
					notes = "current"
				}
				if v == set.Default {
					if notes != "" {
						notes += ", "
					}
					notes += "default"
				}
				rows = append(rows, []string{v, notes})
			}
			renderTable(os.Stdout, columns, rows)
			return nil
		},
	}
}
