package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/core/ports"
)

type CheckCitationsUseCase struct {
	paths     ports.PathResolver
	extractor ports.TextExtractor
	lookups   ports.LookupProvider
	store     ports.ReportStore
	now       func() time.Time
}

func NewCheckCitationsUseCase(
	paths ports.PathResolver,
	extractor ports.TextExtractor,
	lookups ports.LookupProvider,
	store ports.ReportStore,
) *CheckCitationsUseCase {
	return &CheckCitationsUseCase{
		paths:     paths,
		extractor: extractor,
		lookups:   lookups,
		store:     store,
		now:       time.Now,
	}
}

// Run checks every citation in req.FilePath and, when req.OutputDir is set,
// saves the report below it. All failures come back inside the result.
func (uc *CheckCitationsUseCase) Run(ctx context.Context, req domain.CheckRequest) (result domain.CheckResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("citation check panic: %v", recovered)
			slog.Error("citation_check_panic", "file", req.FilePath, "error", err)
			result = failedResult(err)
		}
	}()

	data, err := uc.check(ctx, req)
	if err != nil {
		slog.Warn("citation_check_failed",
			"file", req.FilePath,
			"category", domain.Category(err),
			"error", err,
		)
		return failedResult(err)
	}
	return domain.CheckResult{Success: true, Data: data}
}

func (uc *CheckCitationsUseCase) check(ctx context.Context, req domain.CheckRequest) (*domain.CheckData, error) {
	sourcePath, err := uc.paths.ResolveInputPath(req.FilePath)
	if err != nil {
		return nil, err
	}

	text, err := uc.extractor.Extract(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	citations, err := uc.lookup(ctx, text)
	if err != nil {
		return nil, err
	}

	report := BuildReport(sourcePath, citations, uc.now())
	data := &domain.CheckData{Report: report}
	if req.OutputDir == "" {
		return data, nil
	}

	outputDir, err := uc.paths.ResolveOutputDir(req.OutputDir)
	if err != nil {
		return nil, err
	}
	persisted, err := uc.store.Save(ctx, report, outputDir, sourcePath)
	if err != nil {
		return nil, err
	}
	data.SavedTo = persisted.Path
	data.ResultFolder = persisted.Folder

	slog.Info("citation_report_saved",
		"file", sourcePath,
		"saved_to", persisted.Path,
		"total_citations", report.Metadata.TotalCitations,
	)
	return data, nil
}

func (uc *CheckCitationsUseCase) lookup(ctx context.Context, text string) ([]domain.Citation, error) {
	session, err := uc.lookups.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			slog.Warn("lookup_session_close_failed", "error", closeErr)
		}
	}()

	raw, err := session.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}

	citations := make([]domain.Citation, 0, len(raw))
	for _, record := range raw {
		citations = append(citations, NormalizeResult(record))
	}
	return citations, nil
}

func failedResult(err error) domain.CheckResult {
	return domain.CheckResult{
		Success: false,
		Error:   domain.PublicMessage(err),
		Err:     err,
	}
}
