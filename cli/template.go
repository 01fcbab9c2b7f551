package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shift-calendar/aggregator"
	"shift-calendar/formatter"
	"shift-calendar/parser"
)

func newSummaryCmd(root *RootOptions) *cobra.Command {
	var templatePath string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print scheduled hours per shift and weekday",
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := parser.LoadTemplate(templatePath)
			if err != nil {
				return err
			}
			if err := template.Validate(); err != nil {
				root.Logger.Warn("Template has validation errors", zap.String("template", templatePath), zap.Error(err))
			}
			writeOut(cmd, formatter.FormatSummary(root.Format, aggregator.Summarize(template)))
			return nil
		},
	}
	cmd.Flags().StringVar(&templatePath, "template", "", "shift template file, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

// errInvalidTemplate is returned by validate after the problems are printed.
var errInvalidTemplate = errors.New("template is invalid")

func newValidateCmd(root *RootOptions) *cobra.Command {
	var templatePath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a shift template the way the editor does before saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := parser.LoadTemplate(templatePath)
			if err != nil {
				return err
			}
			if err := template.Validate(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return errInvalidTemplate
			}
			root.Logger.Info("Template is valid", zap.String("code", template.Code))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d definitions)\n", template.Code, len(template.Definitions))
			return nil
		},
	}
	cmd.Flags().StringVar(&templatePath, "template", "", "shift template file, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
