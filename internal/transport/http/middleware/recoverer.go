package middleware

import (
	"net/http"
	"runtime/debug"

	"labourhub/internal/platform/logging"
	"labourhub/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			reqID := GetRequestID(r.Context())
			logging.Logger.Error().
				Interface("panic", rec).
				Str("request_id", reqID).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
		}()
		next.ServeHTTP(w, r)
	})
}
