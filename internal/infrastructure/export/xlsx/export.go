// Package xlsx renders a saved citation report as a spreadsheet.
package xlsx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

const (
	FileName       = "citations_report.xlsx"
	citationsSheet = "Citations"
	summarySheet   = "Summary"
)

var citationHeader = []any{"Citation", "Normalized", "Status", "Status Name", "Valid", "Start", "End", "Case Name", "Error"}

// ExportReport writes report to path, one row per citation plus a summary
// sheet.
func ExportReport(report *domain.Report, path string) error {
	if report == nil {
		return domain.NewError(domain.ErrValidation, "Report is empty")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", citationsSheet); err != nil {
		return domain.WrapError(domain.ErrIO, "rename sheet", err)
	}
	if err := writeCitations(f, report); err != nil {
		return domain.WrapError(domain.ErrIO, "write citations sheet", err)
	}
	if err := writeSummary(f, report); err != nil {
		return domain.WrapError(domain.ErrIO, "write summary sheet", err)
	}

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return domain.WrapError(domain.ErrIO, "save workbook", err)
	}
	return nil
}

func writeCitations(f *excelize.File, report *domain.Report) error {
	if err := f.SetSheetRow(citationsSheet, "A1", &citationHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(citationsSheet, "A1", "I1", bold); err != nil {
		return err
	}

	for i, entry := range report.Citations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := citationRow(entry)
		if err := f.SetSheetRow(citationsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(citationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func citationRow(entry domain.CitationEntry) []any {
	row := []any{
		entry.CitationText,
		strings.Join(entry.Normalized, "; "),
		entry.Status,
		entry.StatusName,
		entry.Valid,
		optionalInt(entry.Position.Start),
		optionalInt(entry.Position.End),
		"",
		"",
	}
	if entry.CaseInfo != nil && entry.CaseInfo.CaseName != nil {
		row[7] = *entry.CaseInfo.CaseName
	}
	if entry.ErrorMessage != nil {
		row[8] = *entry.ErrorMessage
	}
	return row
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func writeSummary(f *excelize.File, report *domain.Report) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	meta := report.Metadata
	rows := [][]any{
		{"File", meta.File},
		{"Checked At", meta.CheckedAt.Format("2006-01-02 15:04:05")},
		{"Total Citations", meta.TotalCitations},
		{"Found", meta.Summary.Found},
		{"Not Found", meta.Summary.NotFound},
		{"Invalid", meta.Summary.Invalid},
		{"Multiple Matches", meta.Summary.MultipleMatches},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 18)
}
