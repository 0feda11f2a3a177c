package userhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/audit"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/domain/user"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, in user.CreateInput) (user.User, error)
	Get(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context, filter user.Filter, page query.Page) (query.Result[user.User], error)
	UpdateProfile(ctx context.Context, id string, in user.ProfileInput) (user.User, error)
	ChangeRole(ctx context.Context, id, role string) (user.User, string, error)
	ChangePassword(ctx context.Context, id string, in user.PasswordInput) error
	Delete(ctx context.Context, id string) (user.User, error)
}

type Handler struct {
	Service Service
	Audit   shared.AuditRecorder
}

func NewHandler(service Service, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.Get("/{userID}", h.handleGet)
		r.Patch("/{userID}", h.handleUpdateProfile)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{userID}/role", h.handleChangeRole)
		r.Put("/{userID}/password", h.handleChangePassword)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{userID}", h.handleDelete)
	})
}

type rolePayload struct {
	Role string `json:"role"`
}

// selfOrAdmin rejects callers that are neither the account owner nor an admin.
func selfOrAdmin(r *http.Request, id string) error {
	current, _ := middleware.GetUser(r.Context())
	if current.Role == auth.RoleAdmin || current.UserID == id {
		return nil
	}
	return apperr.Forbidden("insufficient permissions")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload user.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := user.Filter{Role: q.Get("role"), Search: q.Get("search")}
	out, err := h.Service.List(r.Context(), filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := shared.PathID(r, "userID")
	if err := selfOrAdmin(r, id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := shared.PathID(r, "userID")
	if err := selfOrAdmin(r, id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var payload user.ProfileInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.UpdateProfile(r.Context(), id, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload rolePayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, previous, err := h.Service.ChangeRole(r.Context(), shared.PathID(r, "userID"), payload.Role)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, current.UserID, audit.ActionUserRoleChange, "user", out.ID,
		map[string]string{"role": previous}, map[string]string{"role": out.Role})
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	id := shared.PathID(r, "userID")
	if current.UserID != id {
		shared.WriteError(w, r, apperr.Forbidden("only the account owner may change the password"))
		return
	}
	var payload user.PasswordInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), id, payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	removed, err := h.Service.Delete(r.Context(), shared.PathID(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, current.UserID, audit.ActionUserDelete, "user", removed.ID, removed, nil)
	api.NoContent(w)
}
