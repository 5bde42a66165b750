package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/citecheck/internal/bootstrap"
	"github.com/kirillkom/citecheck/internal/config"
	"github.com/kirillkom/citecheck/internal/core/domain"
)

func checkCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file> [output_dir]",
		Short: "Check the citations in a document",
		Long: `Check every citation in a .md, .txt or .markdown file.

When output_dir is given the report is saved as
<output_dir>/<name>/citecheck_result_<timestamp>/citations_report.json.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, v, args)
		},
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
	_ = v.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	return cmd
}

func runCheck(cmd *cobra.Command, v *viper.Viper, args []string) error {
	format := strings.ToLower(v.GetString("output.format"))
	if !isKnownFormat(format) {
		return fmt.Errorf("unsupported output format %q", format)
	}

	req := domain.CheckRequest{FilePath: args[0]}
	if len(args) > 1 {
		req.OutputDir = args[1]
	}

	cfg := config.Load()
	// One check per process; a breaker would never see a second call.
	cfg.BreakerEnabled = false

	app, err := bootstrap.New(cmd.Context(), cfg, "citecheck-cli")
	if err != nil {
		return err
	}
	defer app.Close()

	result := app.CheckUC.Run(cmd.Context(), req)
	if err := renderResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, result); err != nil {
		return err
	}
	if !result.Success {
		return errCheckFailed
	}
	return nil
}
