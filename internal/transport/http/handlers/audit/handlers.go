package audithandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/audit"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter audit.Filter, page query.Page) (query.Result[audit.Event], error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth, middleware.RequireRole(auth.RoleAdmin)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		ActorUser:  q.Get("actorUserId"),
	}
	out, err := h.Service.List(r.Context(), filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
