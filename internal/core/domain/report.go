package domain

import "time"

type StatusSummary struct {
	Found           int `json:"found"`
	NotFound        int `json:"not_found"`
	Invalid         int `json:"invalid"`
	MultipleMatches int `json:"multiple_matches"`
}

type ReportMetadata struct {
	File           string        `json:"file"`
	CheckedAt      time.Time     `json:"checked_at"`
	TotalCitations int           `json:"total_citations"`
	Summary        StatusSummary `json:"summary"`
}

type Position struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

type CaseInfo struct {
	CaseName *string       `json:"case_name"`
	Clusters []CaseCluster `json:"clusters"`
}

type CitationEntry struct {
	CitationText string    `json:"citation_text"`
	Normalized   []string  `json:"normalized"`
	Status       int       `json:"status"`
	StatusName   string    `json:"status_name"`
	Valid        bool      `json:"valid"`
	Position     Position  `json:"position"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CaseInfo     *CaseInfo `json:"case_info,omitempty"`
}

// Report is built once per check and never modified afterwards.
type Report struct {
	Metadata  ReportMetadata  `json:"metadata"`
	Citations []CitationEntry `json:"citations"`
}

// PersistedReport locates a saved report and the folder that holds it.
type PersistedReport struct {
	Path   string
	Folder string
}
