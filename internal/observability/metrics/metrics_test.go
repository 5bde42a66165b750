package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

func TestObserveCheckCountsOutcomesAndStatuses(t *testing.T) {
	m := New("citecheck-test")

	m.ObserveCheck(domain.CheckResult{
		Success: true,
		Data: &domain.CheckData{Report: &domain.Report{Citations: []domain.CitationEntry{
			{StatusName: "FOUND"},
			{StatusName: "FOUND"},
			{StatusName: "NOT_FOUND"},
		}}},
	}, 250*time.Millisecond)
	m.ObserveCheck(domain.CheckResult{
		Success: false,
		Error:   "Invalid API token",
		Err:     domain.WrapPublic(domain.ErrUnauthorized, "Invalid API token", errors.New("401")),
	}, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.checksTotal.WithLabelValues("citecheck-test", "success", "none")); got != 1 {
		t.Fatalf("expected one successful check, got %v", got)
	}
	if got := testutil.ToFloat64(m.checksTotal.WithLabelValues("citecheck-test", "failure", "unauthorized")); got != 1 {
		t.Fatalf("expected one unauthorized failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.citationsTotal.WithLabelValues("citecheck-test", "FOUND")); got != 2 {
		t.Fatalf("expected two FOUND citations, got %v", got)
	}
	if got := testutil.ToFloat64(m.citationsTotal.WithLabelValues("citecheck-test", "NOT_FOUND")); got != 1 {
		t.Fatalf("expected one NOT_FOUND citation, got %v", got)
	}
}

func TestMiddlewareRecordsNormalizedPath(t *testing.T) {
	m := New("citecheck-test")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/checks/0b6c1c5e", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("citecheck-test", http.MethodGet, "/v1/checks/{run_id}", "404"))
	if got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("citecheck-test")
	m.ObserveCheck(domain.CheckResult{Success: true}, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "citecheck_check_runs_total") {
		t.Fatalf("expected check counter in exposition")
	}
}

func TestMiddlewareCollapsesUnknownPaths(t *testing.T) {
	m := New("citecheck-test")
	handler := m.Middleware(http.NotFoundHandler())

	for _, path := range []string{"/wp-login.php", "/.env", "/v1/checks/a/b", "/v1/checks/"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("citecheck-test", http.MethodGet, "other", "404"))
	if got != 4 {
		t.Fatalf("expected four requests under the other label, got %v", got)
	}
	if series := testutil.CollectAndCount(m.requestTotal); series != 1 {
		t.Fatalf("expected a single series, got %d", series)
	}
}

func TestResponseRecorderWrapsOnce(t *testing.T) {
	rec := NewResponseRecorder(httptest.NewRecorder())
	if again := NewResponseRecorder(rec); again != rec {
		t.Fatalf("expected existing recorder to be reused")
	}

	rec.WriteHeader(http.StatusTeapot)
	_, _ = rec.Write([]byte("short"))
	if rec.Status() != http.StatusTeapot || rec.BytesWritten() != 5 {
		t.Fatalf("unexpected recorder state %d/%d", rec.Status(), rec.BytesWritten())
	}
}
