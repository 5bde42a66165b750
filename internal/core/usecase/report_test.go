package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

func sampleCitations() []domain.Citation {
	return []domain.Citation{
		{Text: "410 U.S. 113", Status: domain.StatusFound, Clusters: []domain.CaseCluster{{"case_name": "Roe v. Wade"}}},
		{Text: "999 U.S. 999", Status: domain.StatusNotFound},
		{Text: "1 U.S.", Status: domain.StatusInvalid},
		{Text: "1 F.3d 1", Status: domain.StatusMultipleMatches},
		{Text: "2 F.3d 2", Status: domain.StatusTooManyCitations},
		{Text: "3 F.3d 3", Status: domain.StatusCode(418)},
		{Text: "347 U.S. 483", Status: domain.StatusFound, Span: &domain.Span{Start: 3, End: 15}},
	}
}

func TestBuildReportSummaryBuckets(t *testing.T) {
	report := BuildReport("/docs/brief.md", sampleCitations(), time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))

	if report.Metadata.TotalCitations != 7 {
		t.Fatalf("expected 7 citations in total, got %d", report.Metadata.TotalCitations)
	}
	want := domain.StatusSummary{Found: 2, NotFound: 1, Invalid: 1, MultipleMatches: 1}
	if report.Metadata.Summary != want {
		t.Fatalf("expected summary %+v, got %+v", want, report.Metadata.Summary)
	}
	if report.Metadata.File != "/docs/brief.md" {
		t.Fatalf("unexpected file %q", report.Metadata.File)
	}
	if len(report.Citations) != 7 || report.Citations[0].CitationText != "410 U.S. 113" {
		t.Fatalf("expected entries in lookup order, got %+v", report.Citations)
	}
}

func TestBuildReportIsIdempotent(t *testing.T) {
	citations := sampleCitations()
	checkedAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	first, err := json.Marshal(BuildReport("/docs/brief.md", citations, checkedAt).Metadata.Summary)
	if err != nil {
		t.Fatalf("marshal first summary: %v", err)
	}
	second, err := json.Marshal(BuildReport("/docs/brief.md", citations, checkedAt).Metadata.Summary)
	if err != nil {
		t.Fatalf("marshal second summary: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("summaries differ: %s vs %s", first, second)
	}
}

func TestBuildReportEntryShape(t *testing.T) {
	report := BuildReport("/docs/brief.md", sampleCitations(), time.Now())

	found := report.Citations[0]
	if !found.Valid || found.StatusName != "FOUND" {
		t.Fatalf("unexpected found entry %+v", found)
	}
	if found.CaseInfo == nil || found.CaseInfo.CaseName == nil || *found.CaseInfo.CaseName != "Roe v. Wade" {
		t.Fatalf("expected case info with Roe v. Wade, got %+v", found.CaseInfo)
	}
	if found.Position.Start != nil || found.Position.End != nil {
		t.Fatalf("expected empty position, got %+v", found.Position)
	}
	if found.Normalized == nil {
		t.Fatalf("expected non-nil normalized slice")
	}

	unknown := report.Citations[5]
	if unknown.Status != 418 || unknown.StatusName != "UNKNOWN" || unknown.Valid {
		t.Fatalf("unexpected unknown entry %+v", unknown)
	}
	if unknown.CaseInfo != nil {
		t.Fatalf("expected no case info without clusters")
	}

	spanned := report.Citations[6]
	if spanned.Position.Start == nil || *spanned.Position.Start != 3 || *spanned.Position.End != 15 {
		t.Fatalf("unexpected position %+v", spanned.Position)
	}

	body, err := json.Marshal(found)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	position, ok := decoded["position"].(map[string]any)
	if !ok {
		t.Fatalf("expected position object, got %v", decoded["position"])
	}
	if _, ok := position["start"]; !ok {
		t.Fatalf("expected start key to be present even when null")
	}
}
