package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/core/ports"
)

// TrackingSinks are optional side channels of a check. Nil fields are skipped.
type TrackingSinks struct {
	Runs     ports.CheckRunRepository
	Events   ports.EventPublisher
	Archiver ports.ReportArchiver
	Observer ports.CheckObserver
}

// TrackedCheckUseCase decorates a checker with run IDs, history, archiving,
// events and metrics. Sink failures are logged and never alter the result.
type TrackedCheckUseCase struct {
	checker ports.CitationChecker
	sinks   TrackingSinks
	now     func() time.Time
}

func NewTrackedCheckUseCase(checker ports.CitationChecker, sinks TrackingSinks) *TrackedCheckUseCase {
	return &TrackedCheckUseCase{
		checker: checker,
		sinks:   sinks,
		now:     time.Now,
	}
}

func (uc *TrackedCheckUseCase) Run(ctx context.Context, req domain.CheckRequest) domain.CheckResult {
	started := uc.now()
	result := uc.checker.Run(ctx, req)
	result.RunID = uuid.NewString()

	if uc.sinks.Observer != nil {
		uc.sinks.Observer.ObserveCheck(result, uc.now().Sub(started))
	}

	if result.Success && result.Data != nil && result.Data.SavedTo != "" {
		uc.archive(ctx, result)
		uc.publish(ctx, result)
	}

	if uc.sinks.Runs != nil {
		run := runFromResult(result, req, uc.now().UTC())
		if err := uc.sinks.Runs.SaveRun(ctx, run); err != nil {
			slog.Warn("check_run_record_failed", "run_id", result.RunID, "error", err)
		}
	}
	return result
}

func (uc *TrackedCheckUseCase) GetRun(ctx context.Context, id string) (*domain.CheckRun, error) {
	if uc.sinks.Runs == nil {
		return nil, domain.NewError(domain.ErrRunNotFound, "Check history is not configured")
	}
	return uc.sinks.Runs.GetRun(ctx, id)
}

func (uc *TrackedCheckUseCase) archive(ctx context.Context, result domain.CheckResult) {
	if uc.sinks.Archiver == nil {
		return
	}
	location, err := uc.sinks.Archiver.Archive(ctx, domain.PersistedReport{
		Path:   result.Data.SavedTo,
		Folder: result.Data.ResultFolder,
	})
	if err != nil {
		slog.Warn("report_archive_failed", "run_id", result.RunID, "error", err)
		return
	}
	result.Data.ArchivedTo = location
}

func (uc *TrackedCheckUseCase) publish(ctx context.Context, result domain.CheckResult) {
	if uc.sinks.Events == nil {
		return
	}
	metadata := result.Data.Report.Metadata
	event := domain.ReportSavedEvent{
		RunID:          result.RunID,
		File:           metadata.File,
		SavedTo:        result.Data.SavedTo,
		ResultFolder:   result.Data.ResultFolder,
		ArchivedTo:     result.Data.ArchivedTo,
		TotalCitations: metadata.TotalCitations,
		Summary:        metadata.Summary,
		CheckedAt:      metadata.CheckedAt,
	}
	if err := uc.sinks.Events.PublishReportSaved(ctx, event); err != nil {
		slog.Warn("report_saved_publish_failed", "run_id", result.RunID, "error", err)
	}
}

func runFromResult(result domain.CheckResult, req domain.CheckRequest, createdAt time.Time) *domain.CheckRun {
	run := &domain.CheckRun{
		ID:        result.RunID,
		FilePath:  req.FilePath,
		OutputDir: req.OutputDir,
		Success:   result.Success,
		Error:     result.Error,
		CreatedAt: createdAt,
	}
	if result.Data == nil || result.Data.Report == nil {
		return run
	}

	metadata := result.Data.Report.Metadata
	checkedAt := metadata.CheckedAt
	run.FilePath = metadata.File
	run.TotalCitations = metadata.TotalCitations
	run.Summary = metadata.Summary
	run.SavedTo = result.Data.SavedTo
	run.ResultFolder = result.Data.ResultFolder
	run.CheckedAt = &checkedAt
	return run
}
