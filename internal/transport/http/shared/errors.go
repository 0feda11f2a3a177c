package shared

import (
	"net/http"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/requestctx"
	"labourhub/internal/transport/http/api"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteError renders err as an error envelope. Errors outside the taxonomy
// are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	appErr, ok := apperr.As(err)
	if !ok {
		log := logging.WithComponent("http")
		log.Error().Err(err).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unexpected error")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	api.FailWithDetails(w, StatusFor(appErr.Kind), api.Error{
		Code:    appErr.Code,
		Message: appErr.Error(),
		Field:   appErr.Field,
		Details: appErr.Details,
	}, requestID)
}
