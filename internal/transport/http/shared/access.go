package shared

import (
	"context"
	"net/http"

	"labourhub/internal/domain/auth"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/requestctx"
)

// LabourerScope pins labourer-role callers to their own profile.
type LabourerScope interface {
	Scope(ctx context.Context, user auth.UserContext, requested string) (string, error)
	Owns(ctx context.Context, user auth.UserContext, labourerID string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// RecordAudit writes an audit event. Failures are logged and never surface
// to the caller.
func RecordAudit(r *http.Request, recorder AuditRecorder, actorID, action, entityType, entityID string, before, after any) {
	if recorder == nil {
		return
	}
	requestID := requestctx.GetRequestID(r.Context())
	if err := recorder.Record(r.Context(), actorID, action, entityType, entityID, requestID, ClientIP(r), before, after); err != nil {
		log := logging.WithComponent("audit")
		log.Warn().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Str("request_id", requestID).
			Msg("audit record failed")
	}
}
