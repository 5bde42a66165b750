package usecase

import (
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// BuildReport aggregates normalized citations into a report. Only the four
// named buckets are counted in the summary; TOO_MANY_CITATIONS and unknown
// codes show up in the total alone.
func BuildReport(sourcePath string, citations []domain.Citation, checkedAt time.Time) *domain.Report {
	entries := make([]domain.CitationEntry, 0, len(citations))
	for _, citation := range citations {
		entries = append(entries, buildEntry(citation))
	}

	return &domain.Report{
		Metadata: domain.ReportMetadata{
			File:           sourcePath,
			CheckedAt:      checkedAt,
			TotalCitations: len(citations),
			Summary:        Summarize(citations),
		},
		Citations: entries,
	}
}

func Summarize(citations []domain.Citation) domain.StatusSummary {
	var summary domain.StatusSummary
	for _, citation := range citations {
		switch citation.Status {
		case domain.StatusFound:
			summary.Found++
		case domain.StatusNotFound:
			summary.NotFound++
		case domain.StatusInvalid:
			summary.Invalid++
		case domain.StatusMultipleMatches:
			summary.MultipleMatches++
		}
	}
	return summary
}

func buildEntry(citation domain.Citation) domain.CitationEntry {
	normalized := citation.NormalizedForms
	if normalized == nil {
		normalized = []string{}
	}

	entry := domain.CitationEntry{
		CitationText: citation.Text,
		Normalized:   normalized,
		Status:       int(citation.Status),
		StatusName:   citation.Status.Name(),
		Valid:        citation.IsValid(),
		ErrorMessage: citation.ErrorMessage,
	}
	if citation.Span != nil {
		start, end := citation.Span.Start, citation.Span.End
		entry.Position = domain.Position{Start: &start, End: &end}
	}

	if len(citation.Clusters) > 0 {
		info := &domain.CaseInfo{Clusters: citation.Clusters}
		if name, ok := citation.CaseName(); ok {
			info.CaseName = &name
		}
		entry.CaseInfo = info
	}
	return entry
}
