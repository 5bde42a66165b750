package ports

import (
	"context"
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// PathResolver validates user-supplied paths before any I/O happens on them.
type PathResolver interface {
	ResolveInputPath(raw string) (string, error)
	ResolveOutputDir(raw string) (string, error)
}

// TextExtractor reads the document text from a resolved path.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// CitationLookup is one open session against the lookup service.
// Close must be called on every path once the session is no longer needed.
type CitationLookup interface {
	Lookup(ctx context.Context, text string) ([]domain.RawLookupResult, error)
	Close() error
}

// LookupProvider opens lookup sessions; configuration errors surface here.
type LookupProvider interface {
	Open(ctx context.Context) (CitationLookup, error)
}

// ReportStore persists a finished report under an output directory.
type ReportStore interface {
	Save(ctx context.Context, report *domain.Report, outputDir, sourcePath string) (domain.PersistedReport, error)
}

// CheckRunRepository records check runs for later inspection.
type CheckRunRepository interface {
	SaveRun(ctx context.Context, run *domain.CheckRun) error
	GetRun(ctx context.Context, id string) (*domain.CheckRun, error)
}

// EventPublisher announces saved reports to downstream consumers.
type EventPublisher interface {
	PublishReportSaved(ctx context.Context, event domain.ReportSavedEvent) error
}

// ReportArchiver mirrors a saved report to remote storage.
type ReportArchiver interface {
	Archive(ctx context.Context, persisted domain.PersistedReport) (string, error)
}

// CheckObserver receives the outcome of each check, e.g. for metrics.
type CheckObserver interface {
	ObserveCheck(result domain.CheckResult, duration time.Duration)
}
