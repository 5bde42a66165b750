// Package localfs writes citation reports to the local filesystem.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

const (
	ReportFileName   = "citations_report.json"
	ResultDirPrefix  = "citecheck_result_"
	TimestampLayout  = "20060102_150405"
	extractedSuffix  = "_extracted_cites"
	dirPermissions   = 0o755
	reportPermission = 0o644
)

// ReportStore lays reports out as
// <output_dir>/<base>/citecheck_result_<timestamp>/citations_report.json.
type ReportStore struct {
	now       func() time.Time
	rootOwned func(path string) bool
}

func NewReportStore() *ReportStore {
	return &ReportStore{now: time.Now, rootOwned: ownedByRoot}
}

func (s *ReportStore) Save(_ context.Context, report *domain.Report, outputDir, sourcePath string) (domain.PersistedReport, error) {
	if report == nil {
		return domain.PersistedReport{}, domain.WrapError(domain.ErrIO, "save report", errors.New("report is nil"))
	}

	folder := filepath.Join(outputDir, ReportBaseName(sourcePath), ResultDirPrefix+s.now().Format(TimestampLayout))
	if err := os.MkdirAll(folder, dirPermissions); err != nil {
		return domain.PersistedReport{}, domain.WrapError(domain.ErrIO, "create result folder", err)
	}

	target := filepath.Join(folder, ReportFileName)
	if s.rootOwned(target) {
		return domain.PersistedReport{}, domain.NewError(domain.ErrIO, "Cannot overwrite system file")
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportPermission)
	if err != nil {
		return domain.PersistedReport{}, domain.WrapError(domain.ErrIO, "create report file", err)
	}
	if err := encodeReport(f, report); err != nil {
		_ = f.Close()
		return domain.PersistedReport{}, domain.WrapError(domain.ErrIO, "write report file", err)
	}
	if err := f.Close(); err != nil {
		return domain.PersistedReport{}, domain.WrapError(domain.ErrIO, "close report file", err)
	}

	return domain.PersistedReport{Path: target, Folder: folder}, nil
}

func encodeReport(f *os.File, report *domain.Report) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// ReportBaseName is the source file name without its extension and without a
// trailing "_extracted_cites".
func ReportBaseName(sourcePath string) string {
	name := filepath.Base(sourcePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, extractedSuffix)
}

// LoadReport reads the report saved in a result folder.
func LoadReport(folder string) (*domain.Report, error) {
	path := filepath.Join(folder, ReportFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewError(domain.ErrPath, "Report not found: "+path)
		}
		return nil, domain.WrapError(domain.ErrIO, "read report file", err)
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, domain.WrapPublic(domain.ErrValidation, fmt.Sprintf("Malformed report: %s", path), err)
	}
	return &report, nil
}
