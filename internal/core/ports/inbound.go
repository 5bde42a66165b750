package ports

import (
	"context"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// CitationChecker is the inbound contract for a single citation check. It
// never returns an error: failures are folded into the result.
type CitationChecker interface {
	Run(ctx context.Context, req domain.CheckRequest) domain.CheckResult
}

// CheckRunReader is the inbound read model for recorded checks.
type CheckRunReader interface {
	GetRun(ctx context.Context, id string) (*domain.CheckRun, error)
}
