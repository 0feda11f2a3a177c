package labourerhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/labourer"
	"labourhub/internal/domain/query"
	"labourhub/internal/transport/http/middleware"
)

const ownLabourer = "65f0c0ffee00000000000a01"

var (
	manager = auth.UserContext{UserID: "65f0c0ffee00000000000001", Role: auth.RoleManager}
	worker  = auth.UserContext{UserID: "65f0c0ffee00000000000002", Role: auth.RoleLabourer}
)

type fakeService struct {
	Service
	listed labourer.Filter
}

func (f *fakeService) Scope(_ context.Context, user auth.UserContext, requested string) (string, error) {
	if user.IsStaff() {
		return requested, nil
	}
	if requested != ownLabourer {
		return "", apperr.Forbidden("labourers may only access their own records")
	}
	return ownLabourer, nil
}

func (f *fakeService) Owns(ctx context.Context, user auth.UserContext, labourerID string) error {
	_, err := f.Scope(ctx, user, labourerID)
	return err
}

func (f *fakeService) List(_ context.Context, filter labourer.Filter, page query.Page) (query.Result[labourer.Labourer], error) {
	f.listed = filter
	return query.NewResult(page, []labourer.Labourer{}, 0), nil
}

func (f *fakeService) Get(_ context.Context, id string) (labourer.Labourer, error) {
	return labourer.Labourer{ID: id, Name: "Asha"}, nil
}

func newRouter(svc Service, current auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), current)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListRestrictsLabourersToOwnAccount(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, http.StatusOK, get(newRouter(svc, worker), "/labourers?userId="+manager.UserID).Code)
	assert.Equal(t, worker.UserID, svc.listed.UserID)

	assert.Equal(t, http.StatusOK, get(newRouter(svc, manager), "/labourers?skillType=mason").Code)
	assert.Equal(t, "", svc.listed.UserID)
	assert.Equal(t, "mason", svc.listed.SkillType)
}

func TestGetChecksOwnership(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, http.StatusOK, get(newRouter(svc, worker), "/labourers/"+ownLabourer).Code)
	assert.Equal(t, http.StatusForbidden, get(newRouter(svc, worker), "/labourers/65f0c0ffee00000000000a02").Code)
	assert.Equal(t, http.StatusOK, get(newRouter(svc, manager), "/labourers/65f0c0ffee00000000000a02").Code)
}
