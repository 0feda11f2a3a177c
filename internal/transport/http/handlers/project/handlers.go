package projecthandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/project"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, in project.Input) (project.Project, error)
	Get(ctx context.Context, id string) (project.Project, error)
	List(ctx context.Context, filter project.Filter, page query.Page) (query.Result[project.Project], error)
	Update(ctx context.Context, id string, in project.Input) (project.Project, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id string, labourerIDs []string) (project.Project, error)
	Unassign(ctx context.Context, id, labourerID string) (project.Project, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/projects", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(staff).Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{projectID}", h.handleGet)
		r.With(staff).Patch("/{projectID}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{projectID}", h.handleDelete)
		r.With(staff).Post("/{projectID}/labourers", h.handleAssign)
		r.With(staff).Delete("/{projectID}/labourers/{labourerID}", h.handleUnassign)
	})
}

type assignPayload struct {
	LabourerIDs []string `json:"labourerIds"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload project.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := project.Filter{
		Status:    q.Get("status"),
		ManagerID: q.Get("managerId"),
		Search:    q.Get("search"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	out, err := h.Service.List(r.Context(), filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Get(r.Context(), shared.PathID(r, "projectID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload project.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Update(r.Context(), shared.PathID(r, "projectID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), shared.PathID(r, "projectID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var payload assignPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Assign(r.Context(), shared.PathID(r, "projectID"), payload.LabourerIDs)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Unassign(r.Context(), shared.PathID(r, "projectID"), shared.PathID(r, "labourerID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
