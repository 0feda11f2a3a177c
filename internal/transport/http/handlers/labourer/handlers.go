package labourerhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/labourer"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	shared.LabourerScope
	Create(ctx context.Context, in labourer.Input) (labourer.Labourer, error)
	Get(ctx context.Context, id string) (labourer.Labourer, error)
	List(ctx context.Context, filter labourer.Filter, page query.Page) (query.Result[labourer.Labourer], error)
	Update(ctx context.Context, id string, in labourer.Input) (labourer.Labourer, error)
	UpdateStatus(ctx context.Context, id, status string) (labourer.Labourer, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/labourers", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(staff).Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{labourerID}", h.handleGet)
		r.With(staff).Patch("/{labourerID}", h.handleUpdate)
		r.With(staff).Patch("/{labourerID}/status", h.handleUpdateStatus)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{labourerID}", h.handleDelete)
	})
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload labourer.Input
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
	current, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	filter := labourer.Filter{
		Status:    q.Get("status"),
		SkillType: q.Get("skillType"),
		ProjectID: q.Get("projectId"),
		UserID:    q.Get("userId"),
		Search:    q.Get("search"),
	}
	if !current.IsStaff() {
		filter.UserID = current.UserID
	}
	out, err := h.Service.List(r.Context(), filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	id := shared.PathID(r, "labourerID")
	if err := h.Service.Owns(r.Context(), current, id); err != nil {
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

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload labourer.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Update(r.Context(), shared.PathID(r, "labourerID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.UpdateStatus(r.Context(), shared.PathID(r, "labourerID"), payload.Status)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), shared.PathID(r, "labourerID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}
