package salaryhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/salary"
	"labourhub/internal/transport/http/middleware"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

const (
	ownLabourer   = "65f0c0ffee00000000000a01"
	otherLabourer = "65f0c0ffee00000000000a02"
)

var (
	admin   = auth.UserContext{UserID: "65f0c0ffee00000000000001", Role: auth.RoleAdmin}
	manager = auth.UserContext{UserID: "65f0c0ffee00000000000003", Role: auth.RoleManager}
	worker  = auth.UserContext{UserID: "65f0c0ffee00000000000002", Role: auth.RoleLabourer}
)

type scope struct{}

func (scope) Scope(_ context.Context, user auth.UserContext, requested string) (string, error) {
	if user.IsStaff() {
		return requested, nil
	}
	if requested != "" && requested != ownLabourer {
		return "", apperr.Forbidden("labourers may only access their own records")
	}
	return ownLabourer, nil
}

func (s scope) Owns(ctx context.Context, user auth.UserContext, labourerID string) error {
	_, err := s.Scope(ctx, user, labourerID)
	return err
}

type auditEntry struct {
	actor, action, entityID string
}

type recorder struct {
	entries []auditEntry
}

func (r *recorder) Record(_ context.Context, actorID, action, _, entityID, _, _ string, _, _ any) error {
	r.entries = append(r.entries, auditEntry{actorID, action, entityID})
	return nil
}

type fakeService struct {
	Service
	generate salary.GenerateResult
	salaries map[string]salary.Salary
	slips    map[string]salary.Payslip
	paid     []string
}

func (f *fakeService) Generate(context.Context, salary.GenerateInput) (salary.GenerateResult, error) {
	return f.generate, nil
}

func (f *fakeService) Get(_ context.Context, id string) (salary.Salary, error) {
	s, ok := f.salaries[id]
	if !ok {
		return salary.Salary{}, apperr.NotFound("salary")
	}
	return s, nil
}

func (f *fakeService) Pay(_ context.Context, id string, _ salary.PayInput) (salary.Salary, error) {
	s, ok := f.salaries[id]
	if !ok {
		return salary.Salary{}, apperr.NotFound("salary")
	}
	if s.Status != salary.StatusPending {
		return salary.Salary{}, apperr.Conflict(salary.CodeInvalidState, "salary is already paid")
	}
	s.Status = salary.StatusPaid
	f.salaries[id] = s
	f.paid = append(f.paid, id)
	return s, nil
}

func (f *fakeService) Payslip(_ context.Context, id string) (salary.Payslip, error) {
	slip, ok := f.slips[id]
	if !ok {
		return salary.Payslip{}, apperr.NotFound("payslip")
	}
	return slip, nil
}

func newRouter(svc Service, audit *recorder, current auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), current)))
		})
	})
	NewHandler(svc, scope{}, audit).RegisterRoutes(r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateIsAdminOnlyAndAudited(t *testing.T) {
	svc := &fakeService{generate: salary.GenerateResult{
		Outcome:        salary.OutcomeGenerated,
		GeneratedCount: 1,
		Generated:      []salary.Salary{{ID: "s1", TotalSalary: decimal.NewFromInt(300)}},
		Skipped:        []string{},
		Failed:         []salary.GenerateFailure{},
	}}
	audit := &recorder{}
	body := `{"startPeriod":"2024-03-01","endPeriod":"2024-03-31","dailyWage":100}`

	assert.Equal(t, http.StatusForbidden, do(newRouter(svc, audit, manager), http.MethodPost, "/salaries/generate", body).Code)

	rec := do(newRouter(svc, audit, admin), http.MethodPost, "/salaries/generate", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalSalary":300`)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, auditEntry{admin.UserID, "salary.generate", "2024-03-01/2024-03-31"}, audit.entries[0])
}

func TestGenerateAlreadyGeneratedIsOK(t *testing.T) {
	svc := &fakeService{generate: salary.GenerateResult{
		Outcome:      salary.OutcomeAlreadyGenerated,
		SkippedCount: 1,
		Skipped:      []string{ownLabourer},
	}}
	audit := &recorder{}
	rec := do(newRouter(svc, audit, admin), http.MethodPost, "/salaries/generate", `{"startPeriod":"2024-03-01","endPeriod":"2024-03-31","dailyWage":100}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), salary.OutcomeAlreadyGenerated)
	assert.Empty(t, audit.entries)
}

func TestPayWithoutBodyAndRepeatConflicts(t *testing.T) {
	svc := &fakeService{salaries: map[string]salary.Salary{
		"s1": {ID: "s1", LabourerID: ownLabourer, Status: salary.StatusPending},
	}}
	audit := &recorder{}
	router := newRouter(svc, audit, admin)

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/salaries/s1/pay", "").Code)
	rec := do(router, http.MethodPost, "/salaries/s1/pay", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), salary.CodeInvalidState)
	assert.Len(t, audit.entries, 1)
}

func TestGetScopesLabourers(t *testing.T) {
	svc := &fakeService{salaries: map[string]salary.Salary{
		"mine":   {ID: "mine", LabourerID: ownLabourer},
		"theirs": {ID: "theirs", LabourerID: otherLabourer},
	}}
	router := newRouter(svc, &recorder{}, worker)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/salaries/mine", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/salaries/theirs", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/salaries/summary", "").Code)
}

func TestDownloadPayslip(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.pdf")
	require.NoError(t, os.WriteFile(local, []byte("%PDF-1.3 test"), 0o600))

	svc := &fakeService{
		salaries: map[string]salary.Salary{
			"remote": {ID: "remote", LabourerID: ownLabourer},
			"local":  {ID: "local", LabourerID: ownLabourer},
			"none":   {ID: "none", LabourerID: ownLabourer},
			"theirs": {ID: "theirs", LabourerID: otherLabourer},
		},
		slips: map[string]salary.Payslip{
			"remote": {URL: "https://files.example.com/remote.pdf"},
			"local":  {Path: local},
			"theirs": {URL: "https://files.example.com/theirs.pdf"},
		},
	}
	router := newRouter(svc, &recorder{}, worker)

	rec := do(router, http.MethodGet, "/salaries/remote/payslip", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://files.example.com/remote.pdf", rec.Header().Get("Location"))

	rec = do(router, http.MethodGet, "/salaries/local/payslip", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/salaries/none/payslip", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/salaries/theirs/payslip", "").Code)
}
