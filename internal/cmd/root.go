// Package cmd implements the logrotate command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...cmd.version=...".
var version = "dev"

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logrotate",
		Short: "logrotate: size-triggered rotation of log file families",
		Long: `logrotate rotates configured log files once they grow past a size
threshold. Each file's family (app.log, app.0 .. app.9) shifts one stage:
the oldest backup is deleted, every other backup is copied one stage down,
and the active log is copied to .0 and truncated in place.

Paths come from a JSON list (LOG_ROTATOR__LOGGER_JSON_FILE_PATH or
--paths-file) or from positional arguments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "info", "diagnostics level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "diagnostics format: text, json")
	root.PersistentFlags().String("log-file", "", "also write diagnostics to this file (size-rotated)")

	root.AddCommand(newRunCmd(), newPlanCmd(), newVersionCmd())
	return root
}

// Execute runs the command line against ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the logrotate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "logrotate "+version)
		},
	}
}
