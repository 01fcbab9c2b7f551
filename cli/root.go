// Package cli wires the classifier into the shiftcal command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shift-calendar/formatter"
	"shift-calendar/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbosity int
	Format    string // "text" | "json" | "csv"
	Logger    *zap.Logger
}

// NewRootCmd creates the root command for the shiftcal CLI.
func NewRootCmd() *cobra.Command {
	opts := &RootOptions{Logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "shiftcal",
		Short:         "Shift calendar time classification",
		Long:          "Classifies machine run/stop intervals against a shift template into time-attribution cases and summarizes scheduled hours.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !formatter.ValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %s", opts.Format, strings.Join(formatter.Formats, ", "))
			}
			logger, err := logging.New(opts.Verbosity)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			opts.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.Logger.Sync()
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|csv)")

	cmd.AddCommand(
		newClassifyCmd(opts),
		newSummaryCmd(opts),
		newValidateCmd(opts),
	)

	return cmd
}

// writeOut prints s to the command's stdout with a trailing newline.
func writeOut(cmd *cobra.Command, s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	fmt.Fprint(cmd.OutOrStdout(), s)
}
