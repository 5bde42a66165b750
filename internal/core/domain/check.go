package domain

import "time"

type CheckRequest struct {
	FilePath  string `json:"file_path"`
	OutputDir string `json:"output_dir,omitempty"`
}

type CheckData struct {
	Report       *Report `json:"report"`
	SavedTo      string  `json:"saved_to,omitempty"`
	ResultFolder string  `json:"result_folder,omitempty"`
	ArchivedTo   string  `json:"archived_to,omitempty"`
}

// CheckResult is the uniform outcome of a check. Err keeps the internal
// cause for status mapping and logs and is never serialized.
type CheckResult struct {
	Success bool       `json:"success"`
	RunID   string     `json:"run_id,omitempty"`
	Data    *CheckData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
	Err     error      `json:"-"`
}

type CheckRun struct {
	ID             string        `json:"id"`
	FilePath       string        `json:"file_path"`
	OutputDir      string        `json:"output_dir,omitempty"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
	TotalCitations int           `json:"total_citations"`
	Summary        StatusSummary `json:"summary"`
	SavedTo        string        `json:"saved_to,omitempty"`
	ResultFolder   string        `json:"result_folder,omitempty"`
	CheckedAt      *time.Time    `json:"checked_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type ReportSavedEvent struct {
	RunID          string        `json:"run_id"`
	File           string        `json:"file"`
	SavedTo        string        `json:"saved_to"`
	ResultFolder   string        `json:"result_folder"`
	ArchivedTo     string        `json:"archived_to,omitempty"`
	TotalCitations int           `json:"total_citations"`
	Summary        StatusSummary `json:"summary"`
	CheckedAt      time.Time     `json:"checked_at"`
}
