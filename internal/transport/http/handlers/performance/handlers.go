package performancehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/performance"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, in performance.Input, evaluatedBy string) (performance.Performance, error)
	Get(ctx context.Context, id string) (performance.Performance, error)
	Update(ctx context.Context, id string, in performance.Input, evaluatedBy string) (performance.Performance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter performance.Filter, page query.Page) (query.Result[performance.Performance], error)
	SummaryByLabourer(ctx context.Context, labourerID, startDate, endDate string) (performance.Summary, error)
}

type Handler struct {
	Service   Service
	Labourers shared.LabourerScope
}

func NewHandler(service Service, labourers shared.LabourerScope) *Handler {
	return &Handler{Service: service, Labourers: labourers}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/performance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(staff).Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/labourer/{labourerID}/summary", h.handleSummary)
		r.Get("/{performanceID}", h.handleGet)
		r.With(staff).Put("/{performanceID}", h.handleUpdate)
		r.With(staff).Delete("/{performanceID}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload performance.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Create(r.Context(), payload, current.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	filter := performance.Filter{
		LabourerID: q.Get("labourerId"),
		ProjectID:  q.Get("projectId"),
		Date:       q.Get("date"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		MinScore:   q.Get("minScore"),
		MaxScore:   q.Get("maxScore"),
	}
	labourerID, err := h.Labourers.Scope(r.Context(), current, filter.LabourerID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	filter.LabourerID = labourerID
	out, err := h.Service.List(r.Context(), filter, shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	out, err := h.Service.Get(r.Context(), shared.PathID(r, "performanceID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Labourers.Owns(r.Context(), current, out.LabourerID); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload performance.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Update(r.Context(), shared.PathID(r, "performanceID"), payload, current.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), shared.PathID(r, "performanceID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	id := shared.PathID(r, "labourerID")
	if err := h.Labourers.Owns(r.Context(), current, id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	q := r.URL.Query()
	out, err := h.Service.SummaryByLabourer(r.Context(), id, q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
