package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/citecheck/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/citecheck/internal/infrastructure/pathguard"
	"github.com/kirillkom/citecheck/internal/infrastructure/storage/localfs"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <result_folder>",
		Short: "Write citations_report.xlsx next to a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := pathguard.NewValidator().ResolveOutputDir(args[0])
			if err != nil {
				return err
			}
			report, err := localfs.LoadReport(folder)
			if err != nil {
				return err
			}

			target := filepath.Join(folder, xlsx.FileName)
			if err := xlsx.ExportReport(report, target); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Spreadsheet saved: ")+target)
			return err
		},
	}
}
