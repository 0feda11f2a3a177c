package attendancehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/attendance"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/metrics"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, in attendance.Input, markedBy string) (attendance.Attendance, error)
	Bulk(ctx context.Context, entries []attendance.Input, markedBy string) (attendance.BulkResult, error)
	Get(ctx context.Context, id string) (attendance.Attendance, error)
	Update(ctx context.Context, id string, in attendance.UpdateInput, markedBy string) (attendance.Attendance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter attendance.Filter, page query.Page) (query.Result[attendance.Attendance], error)
	Export(ctx context.Context, filter attendance.Filter, max int) ([]attendance.Attendance, error)
	SummaryByLabourer(ctx context.Context, labourerID, startDate, endDate string) (attendance.Summary, error)
	SummaryByProject(ctx context.Context, projectID, startDate, endDate string) (attendance.Summary, error)
}

type Handler struct {
	Service   Service
	Labourers shared.LabourerScope
	ExportMax int
}

func NewHandler(service Service, labourers shared.LabourerScope, exportMax int) *Handler {
	return &Handler{Service: service, Labourers: labourers, ExportMax: exportMax}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(staff).Post("/", h.handleCreate)
		r.With(staff).Post("/bulk", h.handleBulk)
		r.Get("/", h.handleList)
		r.With(staff).Get("/export", h.handleExport)
		r.Get("/labourer/{labourerID}/summary", h.handleLabourerSummary)
		r.With(staff).Get("/project/{projectID}/summary", h.handleProjectSummary)
		r.Get("/{attendanceID}", h.handleGet)
		r.With(staff).Put("/{attendanceID}", h.handleUpdate)
		r.With(staff).Delete("/{attendanceID}", h.handleDelete)
	})
}

type bulkPayload struct {
	Records []attendance.Input `json:"records"`
}

func filterFromQuery(r *http.Request) attendance.Filter {
	q := r.URL.Query()
	return attendance.Filter{
		LabourerID: q.Get("labourerId"),
		ProjectID:  q.Get("projectId"),
		Status:     q.Get("status"),
		Shift:      q.Get("shift"),
		Date:       q.Get("date"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		MarkedBy:   q.Get("markedBy"),
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload attendance.Input
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

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload bulkPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Bulk(r.Context(), payload.Records, current.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	metrics.AttendanceBulkRecords.WithLabelValues("inserted").Add(float64(out.InsertedCount))
	metrics.AttendanceBulkRecords.WithLabelValues("failed").Add(float64(out.FailedCount))
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	filter := filterFromQuery(r)
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
	out, err := h.Service.Get(r.Context(), shared.PathID(r, "attendanceID"))
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
	var payload attendance.UpdateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Update(r.Context(), shared.PathID(r, "attendanceID"), payload, current.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), shared.PathID(r, "attendanceID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleLabourerSummary(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Service.SummaryByProject(r.Context(), shared.PathID(r, "projectID"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
