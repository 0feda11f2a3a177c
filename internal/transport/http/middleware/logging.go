package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger writes one line per request and feeds the request metrics.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		metrics.ObserveRequest(r.Method, routePattern(r), recorder.status, elapsed)

		event := logging.Logger.Info()
		if recorder.status >= http.StatusInternalServerError {
			event = logging.Logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Int64("duration_ms", elapsed.Milliseconds()).
			Str("request_id", GetRequestID(r.Context())).
			Msg("http request")
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
