package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]string{
					"version": version,
					"commit":  commit,
					"go":      runtime.Version(),
				})
			}
			_, _ = fmt.Fprintf(os.Stdout, "flowdeck version %s\n", version)
			_, _ = fmt.Fprintf(os.Stdout, "  commit: %s\n", commit)
			_, _ = fmt.Fprintf(os.Stdout, "  go:     %s\n", runtime.Version())
			return nil
		},
	}
}
