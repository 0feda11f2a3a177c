package salaryhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/audit"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/domain/salary"
	"labourhub/internal/platform/metrics"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type Service interface {
	Generate(ctx context.Context, in salary.GenerateInput) (salary.GenerateResult, error)
	Create(ctx context.Context, in salary.Input) (salary.Salary, error)
	Get(ctx context.Context, id string) (salary.Salary, error)
	List(ctx context.Context, filter salary.Filter, page query.Page) (query.Result[salary.Salary], error)
	Update(ctx context.Context, id string, in salary.Input) (salary.Salary, error)
	Pay(ctx context.Context, id string, in salary.PayInput) (salary.Salary, error)
	Delete(ctx context.Context, id string) (salary.Salary, error)
	Summary(ctx context.Context, filter salary.Filter) (salary.Summary, error)
	GeneratePayslip(ctx context.Context, id string) (salary.Salary, error)
	Payslip(ctx context.Context, id string) (salary.Payslip, error)
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
	admin := middleware.RequireRole(auth.RoleAdmin)
	staff := middleware.RequireRole(auth.Staff...)
	r.Route("/salaries", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(admin).Post("/generate", h.handleGenerate)
		r.With(admin).Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.With(staff).Get("/summary", h.handleSummary)
		r.Get("/{salaryID}", h.handleGet)
		r.With(admin).Put("/{salaryID}", h.handleUpdate)
		r.With(admin).Post("/{salaryID}/pay", h.handlePay)
		r.With(admin).Delete("/{salaryID}", h.handleDelete)
		r.With(admin).Post("/{salaryID}/payslip", h.handleGeneratePayslip)
		r.Get("/{salaryID}/payslip", h.handleDownloadPayslip)
	})
}

func filterFromQuery(r *http.Request) salary.Filter {
	q := r.URL.Query()
	return salary.Filter{
		LabourerID:  q.Get("labourerId"),
		Status:      q.Get("status"),
		StartPeriod: q.Get("startPeriod"),
		EndPeriod:   q.Get("endPeriod"),
	}
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload salary.GenerateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Generate(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	metrics.SalariesGenerated.Add(float64(out.GeneratedCount))
	if out.GeneratedCount > 0 {
		shared.RecordAudit(r, h.Audit, current.UserID, audit.ActionSalaryGenerate, "salary_period",
			payload.StartPeriod+"/"+payload.EndPeriod, nil, map[string]any{
				"generated": out.GeneratedCount,
				"skipped":   out.SkippedCount,
				"failed":    out.FailedCount,
			})
	}
	status := http.StatusOK
	if out.GeneratedCount > 0 {
		status = http.StatusCreated
	}
	api.WriteJSON(w, status, api.Envelope{Success: true, Data: out, RequestID: middleware.GetRequestID(r.Context())})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload salary.Input
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

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Summary(r.Context(), filterFromQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

// load fetches a salary the caller is allowed to see.
func (h *Handler) load(r *http.Request) (salary.Salary, error) {
	current, _ := middleware.GetUser(r.Context())
	out, err := h.Service.Get(r.Context(), shared.PathID(r, "salaryID"))
	if err != nil {
		return salary.Salary{}, err
	}
	if err := h.Labourers.Owns(r.Context(), current, out.LabourerID); err != nil {
		return salary.Salary{}, err
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

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload salary.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	out, err := h.Service.Update(r.Context(), shared.PathID(r, "salaryID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	var payload salary.PayInput
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &payload); err != nil {
			shared.WriteError(w, r, err)
			return
		}
	}
	out, err := h.Service.Pay(r.Context(), shared.PathID(r, "salaryID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, current.UserID, audit.ActionSalaryPay, "salary", out.ID,
		map[string]string{"status": salary.StatusPending}, map[string]any{"status": out.Status, "paymentDate": out.PaymentDate})
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	removed, err := h.Service.Delete(r.Context(), shared.PathID(r, "salaryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, current.UserID, audit.ActionSalaryDelete, "salary", removed.ID, removed, nil)
	api.NoContent(w)
}

func (h *Handler) handleGeneratePayslip(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.GeneratePayslip(r.Context(), shared.PathID(r, "salaryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	owned, err := h.load(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	slip, err := h.Service.Payslip(r.Context(), owned.ID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if slip.URL != "" {
		http.Redirect(w, r, slip.URL, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payslip-"+owned.ID+".pdf")
	http.ServeFile(w, r, slip.Path)
}
