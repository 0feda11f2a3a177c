package leavehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/audit"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/leave"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Apply(ctx context.Context, in leave.ApplyInput) (leave.Leave, error)
	Get(ctx context.Context, id string) (leave.Leave, error)
	List(ctx context.Context, filter leave.Filter, page query.Page) (query.Result[leave.Leave], error)
	Approve(ctx context.Context, id, reviewerID string, in leave.ReviewInput) (leave.Leave, error)
	Reject(ctx context.Context, id, reviewerID string, in leave.ReviewInput) (leave.Leave, error)
	Cancel(ctx context.Context, id string) error
}

type Handler struct {
	Service   Service
	Labourers shared.LabourerScope
	Audit     shared.AuditRecorder
}

func NewHandler(service Service, labourers shared.LabourerScope, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Labourers: labourers, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleApply)
		r.Get("/", h.handleList)
		r.Get("/{leaveID}", h.handleGet)
		r.With(staff).Post("/{leaveID}/approve", h.handleApprove)
		r.With(staff).Post("/{leaveID}/reject", h.handleReject)
		r.Delete("/{leaveID}", h.handleCancel)
	})
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload leave.ApplyInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	labourerID, err := h.Labourers.Scope(r.Context(), current, payload.LabourerID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	payload.LabourerID = labourerID
	out, err := h.Service.Apply(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	filter := leave.Filter{
		LabourerID: q.Get("labourerId"),
		Status:     q.Get("status"),
		FromDate:   q.Get("fromDate"),
		ToDate:     q.Get("toDate"),
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

// load fetches a leave the caller is allowed to see.
func (h *Handler) load(r *http.Request) (leave.Leave, error) {
	current, _ := middleware.GetUser(r.Context())
	out, err := h.Service.Get(r.Context(), shared.PathID(r, "leaveID"))
	if err != nil {
		return leave.Leave{}, err
	}
	if err := h.Labourers.Owns(r.Context(), current, out.LabourerID); err != nil {
		return leave.Leave{}, err
	}
	return out, nil
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.load(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, audit.ActionLeaveApprove, h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, audit.ActionLeaveReject, h.Service.Reject)
}

type reviewFunc func(ctx context.Context, id, reviewerID string, in leave.ReviewInput) (leave.Leave, error)

func (h *Handler) review(w http.ResponseWriter, r *http.Request, action string, apply reviewFunc) {
	current, _ := middleware.GetUser(r.Context())
	var payload leave.ReviewInput
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &payload); err != nil {
			shared.WriteError(w, r, err)
			return
		}
	}
	out, err := apply(r.Context(), shared.PathID(r, "leaveID"), current.UserID, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, current.UserID, action, "leave", out.ID,
		map[string]string{"status": leave.StatusPending}, map[string]string{"status": out.Status, "remark": out.Remark})
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	current, err := h.load(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.Cancel(r.Context(), current.ID); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}
