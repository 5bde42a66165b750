package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// knownRoutes are the only path label values; anything else is "other".
var knownRoutes = map[string]struct{}{
	"/healthz":      {},
	"/metrics":      {},
	"/openapi.yaml": {},
	"/v1/checks":    {},
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := NewResponseRecorder(w)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	if id, ok := strings.CutPrefix(path, "/v1/checks/"); ok && id != "" && !strings.Contains(id, "/") {
		return "/v1/checks/{run_id}"
	}
	return "other"
}

// ResponseRecorder captures the status code and body size written through it.
// Wrapping an existing ResponseRecorder returns it unchanged.
type ResponseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	if rec, ok := w.(*ResponseRecorder); ok {
		return rec
	}
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *ResponseRecorder) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *ResponseRecorder) Status() int { return w.status }

func (w *ResponseRecorder) BytesWritten() int { return w.bytes }
