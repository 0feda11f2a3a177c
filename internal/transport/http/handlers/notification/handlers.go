package notificationhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/notification"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Send(ctx context.Context, in notification.SendInput) (notification.Notification, error)
	ListOwn(ctx context.Context, userID string, filter notification.Filter, page query.Page) (query.Result[notification.Notification], error)
	List(ctx context.Context, filter notification.Filter, page query.Page) (query.Result[notification.Notification], error)
	MarkRead(ctx context.Context, id string, user auth.UserContext) (notification.Notification, error)
	Delete(ctx context.Context, id string, user auth.UserContext) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.Staff...)).Post("/", h.handleSend)
		r.Get("/", h.handleListOwn)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/all", h.handleListAll)
		r.Post("/{notificationID}/read", h.handleMarkRead)
		r.Delete("/{notificationID}", h.handleDelete)
	})
}

func filterFromQuery(r *http.Request) notification.Filter {
	q := r.URL.Query()
	return notification.Filter{
		UserID: q.Get("userId"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload notification.SendInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Send(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	out, err := h.Service.ListOwn(r.Context(), current.UserID, filterFromQuery(r), shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.List(r.Context(), filterFromQuery(r), shared.ParsePage(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	out, err := h.Service.MarkRead(r.Context(), shared.PathID(r, "notificationID"), current)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	if err := h.Service.Delete(r.Context(), shared.PathID(r, "notificationID"), current); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}
