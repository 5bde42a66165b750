package courtlistener

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "courtlistener status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("courtlistener lookup status: %s", e.Status)
	}
	return fmt.Sprintf("courtlistener lookup status: %s: %s", e.Status, e.Body)
}

func mapLookupError(err error) error {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return domain.WrapPublic(domain.ErrUnauthorized, "Invalid API token", err)
		case http.StatusTooManyRequests:
			return domain.WrapPublic(domain.ErrRateLimited, "API rate limit exceeded", err)
		}
	}
	return domain.WrapError(domain.ErrTransport, "citation lookup", err)
}

// countsAgainstBreaker keeps caller mistakes and cancellations from tripping
// the breaker; only upstream trouble does.
func countsAgainstBreaker(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if resilience.IsCircuitOpen(err) {
		return true
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusRequestTimeout:
			return true
		}
		return statusErr.StatusCode >= 500
	}
	return true
}
