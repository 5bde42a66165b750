package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/citecheck/internal/config"
	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/core/ports"
	"github.com/kirillkom/citecheck/internal/observability/metrics"
)

const maxRequestBodyBytes = 64 << 10

type Router struct {
	cfg       config.Config
	checker   ports.CitationChecker
	runs      ports.CheckRunReader
	metrics   *metrics.Metrics
	validator *requestValidator
}

// NewRouter fails only when the embedded OpenAPI document is unusable.
// m may be nil.
func NewRouter(
	cfg config.Config,
	checker ports.CitationChecker,
	runs ports.CheckRunReader,
	m *metrics.Metrics,
) (*Router, error) {
	validator, err := loadRequestValidator(context.Background())
	if err != nil {
		return nil, err
	}
	return &Router{
		cfg:       cfg,
		checker:   checker,
		runs:      runs,
		metrics:   m,
		validator: validator,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/v1/checks", rt.createCheck)
	api.HandleFunc("/v1/checks/", rt.getCheck)

	var apiHandler http.Handler = api
	apiHandler = backpressureMiddleware(apiHandler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	apiHandler = rateLimitMiddleware(apiHandler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	apiHandler = apiKeyMiddleware(rt.cfg.APIKey, apiHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.yaml", rt.openAPI)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.Handle("/v1/", apiHandler)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (rt *Router) createCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		writeCheckFailure(w, domain.WrapPublic(domain.ErrValidation, "Request body is too large", err))
		return
	}
	req, err := rt.validator.decodeCheckRequest(body)
	if err != nil {
		writeCheckFailure(w, err)
		return
	}

	ctx := r.Context()
	if rt.cfg.APIRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.APIRequestTimeout)
		defer cancel()
	}

	result := rt.checker.Run(ctx, req)
	if result.RunID != "" {
		w.Header().Set(runIDHeader, result.RunID)
	}
	status := http.StatusOK
	if !result.Success {
		status = mapErrorToHTTPStatus(result.Err)
	}
	writeJSON(w, status, result)
}

func (rt *Router) getCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/checks/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "check run id is required"})
		return
	}
	if rt.runs == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Check history is not configured"})
		return
	}

	run, err := rt.runs.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": domain.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeCheckFailure(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), domain.CheckResult{
		Success: false,
		Error:   domain.PublicMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
