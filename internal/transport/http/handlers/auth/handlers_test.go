package authhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/user"
	"labourhub/internal/transport/http/middleware"
)

type fakeAuth struct {
	identifier string
	loggedOut  auth.UserContext
}

func (f *fakeAuth) Authenticate(_ context.Context, identifier, password string) (auth.Tokens, error) {
	f.identifier = identifier
	if password != "Secret123!" {
		return auth.Tokens{}, apperr.Unauthenticated("invalid credentials")
	}
	return auth.Tokens{AccessToken: "access", RefreshToken: "refresh", UserID: "u1", Role: auth.RoleAdmin}, nil
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (auth.Tokens, error) {
	if token != "refresh" {
		return auth.Tokens{}, apperr.Unauthenticated("invalid refresh token")
	}
	return auth.Tokens{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuth) Logout(_ context.Context, u auth.UserContext) error {
	f.loggedOut = u
	return nil
}

type fakeUsers struct {
	registered user.CreateInput
}

func (f *fakeUsers) Register(_ context.Context, in user.CreateInput) (user.User, error) {
	f.registered = in
	return user.User{ID: "65f0c0ffee00000000000009", Username: in.Username, Role: auth.RoleLabourer}, nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (user.User, error) {
	return user.User{ID: id, Username: "me"}, nil
}

func newRouter(h *Handler, current *auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if current != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *current))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.RegisterRoutes(r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginAcceptsUsernameOrEmailFields(t *testing.T) {
	authSvc := &fakeAuth{}
	router := newRouter(NewHandler(authSvc, &fakeUsers{}, false), nil)

	rec := do(router, http.MethodPost, "/auth/login", `{"email":"ops@example.com","password":"Secret123!"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", authSvc.identifier)
	assert.Contains(t, rec.Body.String(), `"accessToken":"access"`)

	rec = do(router, http.MethodPost, "/auth/login", `{"identifier":"ops","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ops", authSvc.identifier)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	router := newRouter(NewHandler(&fakeAuth{}, &fakeUsers{}, false), nil)
	rec := do(router, http.MethodPost, "/auth/login", `{"identifier":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.CodeInvalidPayload)
}

func TestRegisterHonoursSignupFlag(t *testing.T) {
	users := &fakeUsers{}
	closed := newRouter(NewHandler(&fakeAuth{}, users, false), nil)
	assert.Equal(t, http.StatusForbidden, do(closed, http.MethodPost, "/auth/register", `{"username":"ravi"}`).Code)

	open := newRouter(NewHandler(&fakeAuth{}, users, true), nil)
	rec := do(open, http.MethodPost, "/auth/register", `{"username":"ravi","role":"admin"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ravi", users.registered.Username)
}

func TestRefreshAndLogout(t *testing.T) {
	authSvc := &fakeAuth{}
	current := auth.UserContext{UserID: "u1", Role: auth.RoleManager, SessionID: "s1"}
	router := newRouter(NewHandler(authSvc, &fakeUsers{}, false), &current)

	rec := do(router, http.MethodPost, "/auth/refresh", `{"refreshToken":"refresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh-2")

	rec = do(router, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "s1", authSvc.loggedOut.SessionID)
}

func TestMeRequiresAuthentication(t *testing.T) {
	anonymous := newRouter(NewHandler(&fakeAuth{}, &fakeUsers{}, false), nil)
	assert.Equal(t, http.StatusUnauthorized, do(anonymous, http.MethodGet, "/auth/me", "").Code)

	current := auth.UserContext{UserID: "65f0c0ffee00000000000001", Role: auth.RoleLabourer}
	router := newRouter(NewHandler(&fakeAuth{}, &fakeUsers{}, false), &current)
	rec := do(router, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), current.UserID)
}
