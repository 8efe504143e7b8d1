package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// getOutputFormat returns the effective output format from the root command's
// persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

// outputFormatValue is a pflag.Value for the --output flag. Unknown formats
// are rejected at parse time; values from the environment or a profile are
// validated separately after resolution.
type outputFormatValue struct {
	value *string
}

var _ pflag.Value = outputFormatValue{}

func (v outputFormatValue) String() string {
	if v.value == nil {
		return ""
	}
	return *v.value
}

func (v outputFormatValue) Set(s string) error {
	if err := validateOutputFormat(s); err != nil {
		return err
	}
	*v.value = s
	return nil
}

func (v outputFormatValue) Type() string { return "string" }

// isQuiet reports whether the root --quiet flag is set. Quiet listings emit
// identifiers only.
func isQuiet(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return v
}

// printJSON writes v as indented JSON with a trailing newline.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes a borderless, left-aligned table with upper-cased
// headers. Nil rows still print the header; empty columns print nothing.
func renderTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

// formatValue renders a decoded JSON value for human output. Maps and slices
// are re-serialized as JSON so structure survives; nil renders empty rather
// than "<nil>".
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}, []interface{}:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// printDetail writes one key per line, sorted, with colons aligned.
func printDetail(w io.Writer, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	maxLen := 0
	for k := range fields {
		keys = append(keys, k)
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		padding := strings.Repeat(" ", maxLen-len(k))
		fmt.Fprintf(w, "%s:%s  %s\n", k, padding, formatValue(fields[k]))
	}
}

// extractField pulls a single field out of a decoded JSON object as a string.
func extractField(data map[string]interface{}, field string) string {
	v, ok := data[field]
	if !ok || v == nil {
		return ""
	}
	return formatValue(v)
}

var (
	healthyColor   = color.New(color.FgGreen)
	attentionColor = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	boldText       = color.New(color.Bold)
)

// colorizeStatus maps schedule and poller status words onto terminal colors.
// Color output degrades to plain text on non-terminal writers.
func colorizeStatus(status string) string {
	switch strings.ToUpper(status) {
	case "RUNNING":
		return healthyColor.Sprint(status)
	case "STOPPED", "STALE":
		return attentionColor.Sprint(status)
	case "BACKEND_ERROR", "STATES_ERROR", "ERROR":
		return errorColor.Sprint(status)
	default:
		return status
	}
}
