package localfs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

func sampleReport() *domain.Report {
	start, end := 4, 16
	name := "Roe v. Wade"
	return &domain.Report{
		Metadata: domain.ReportMetadata{
			File:           "/tmp/brief.md",
			CheckedAt:      time.Date(2026, 3, 1, 14, 30, 5, 0, time.UTC),
			TotalCitations: 1,
			Summary:        domain.StatusSummary{Found: 1},
		},
		Citations: []domain.CitationEntry{{
			CitationText: "410 U.S. 113",
			Normalized:   []string{"410 U.S. 113"},
			Status:       200,
			StatusName:   "FOUND",
			Valid:        true,
			Position:     domain.Position{Start: &start, End: &end},
			CaseInfo: &domain.CaseInfo{
				CaseName: &name,
				Clusters: []domain.CaseCluster{{"case_name": name, "absolute_url": "/opinion/108713/roe-v-wade/?a=1&b=2"}},
			},
		}},
	}
}

func fixedStore(at time.Time) *ReportStore {
	return &ReportStore{now: func() time.Time { return at }, rootOwned: ownedByRoot}
}

func TestReportBaseName(t *testing.T) {
	cases := map[string]string{
		"/docs/brief.md":                     "brief",
		"/docs/motion_extracted_cites.txt":   "motion",
		"notes.markdown":                     "notes",
		"/docs/extracted_cites_summary.md":   "extracted_cites_summary",
		"/docs/a_extracted_cites_extra.md":   "a_extracted_cites_extra",
		"/docs/only_extracted_cites.MARKDOWN": "only",
	}
	for in, want := range cases {
		if got := ReportBaseName(in); got != want {
			t.Fatalf("ReportBaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveWritesTimestampedLayout(t *testing.T) {
	out := t.TempDir()
	store := fixedStore(time.Date(2026, 3, 1, 14, 30, 5, 0, time.Local))

	persisted, err := store.Save(context.Background(), sampleReport(), out, "/docs/motion_extracted_cites.md")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	wantFolder := filepath.Join(out, "motion", "citecheck_result_20260301_143005")
	if persisted.Folder != wantFolder {
		t.Fatalf("expected folder %q, got %q", wantFolder, persisted.Folder)
	}
	if persisted.Path != filepath.Join(wantFolder, ReportFileName) {
		t.Fatalf("unexpected report path %q", persisted.Path)
	}
	if _, err := os.Stat(persisted.Path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}

func TestSavedReportMatchesInMemoryReport(t *testing.T) {
	out := t.TempDir()
	report := sampleReport()

	persisted, err := NewReportStore().Save(context.Background(), report, out, "/docs/brief.md")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	onDisk, err := os.ReadFile(persisted.Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(onDisk, []byte("\n  \"metadata\"")) {
		t.Fatalf("expected two-space indentation, got:\n%s", onDisk)
	}
	if !bytes.Contains(onDisk, []byte("?a=1&b=2")) {
		t.Fatalf("expected unescaped ampersand in urls")
	}

	var fromDisk, fromMemory any
	if err := json.Unmarshal(onDisk, &fromDisk); err != nil {
		t.Fatalf("decode disk report: %v", err)
	}
	encoded, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("encode memory report: %v", err)
	}
	if err := json.Unmarshal(encoded, &fromMemory); err != nil {
		t.Fatalf("decode memory report: %v", err)
	}
	diskJSON, _ := json.Marshal(fromDisk)
	memoryJSON, _ := json.Marshal(fromMemory)
	if !bytes.Equal(diskJSON, memoryJSON) {
		t.Fatalf("report on disk differs from returned report\n disk: %s\n mem:  %s", diskJSON, memoryJSON)
	}
}

func TestLoadReportRoundTripsSavedFolder(t *testing.T) {
	out := t.TempDir()
	persisted, err := NewReportStore().Save(context.Background(), sampleReport(), out, "/docs/brief.md")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadReport(persisted.Folder)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	if loaded.Metadata.TotalCitations != 1 || len(loaded.Citations) != 1 {
		t.Fatalf("unexpected loaded report %+v", loaded.Metadata)
	}
	if name := loaded.Citations[0].CaseInfo.CaseName; name == nil || *name != "Roe v. Wade" {
		t.Fatalf("unexpected case name %v", name)
	}
}

func TestLoadReportMissingFolder(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "nope"))
	if !domain.IsKind(err, domain.ErrPath) {
		t.Fatalf("expected ErrPath, got %v", err)
	}
}

func TestSaveRefusesToOverwriteRootOwnedReport(t *testing.T) {
	out := t.TempDir()
	at := time.Date(2026, 3, 1, 14, 30, 5, 0, time.Local)
	folder := filepath.Join(out, "brief", "citecheck_result_20260301_143005")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(folder, ReportFileName)
	original := []byte(`{"keep":"me"}`)
	if err := os.WriteFile(target, original, 0o644); err != nil {
		t.Fatalf("write existing report: %v", err)
	}

	store := &ReportStore{
		now:       func() time.Time { return at },
		rootOwned: func(path string) bool { return path == target },
	}
	_, err := store.Save(context.Background(), sampleReport(), out, "/docs/brief.md")
	if !domain.IsKind(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if got := domain.PublicMessage(err); got != "Cannot overwrite system file" {
		t.Fatalf("unexpected message %q", got)
	}

	onDisk, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read existing report: %v", err)
	}
	if !bytes.Equal(onDisk, original) {
		t.Fatalf("existing report was modified: %s", onDisk)
	}
}
