package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"labourhub/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	ctx := WithUser(t.Context(), auth.UserContext{UserID: "user-1", Role: auth.RoleManager})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/salaries/generate", nil).WithContext(ctx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)
	assert.Equal(t, "0", firstRec.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRequest(http.MethodPost, "/api/v1/salaries/generate", nil).WithContext(ctx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)
	assert.NotEmpty(t, secondRec.Header().Get("Retry-After"))
	assert.Contains(t, secondRec.Body.String(), `"rate_limited"`)
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	first := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	other.RemoteAddr = "203.0.113.99:5555"
	otherRec := httptest.NewRecorder()
	limited.ServeHTTP(otherRec, other)
	assert.Equal(t, http.StatusNoContent, otherRec.Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, clientIPKey)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "192.0.2.20:1111"

	assert.True(t, rl.enforce(httptest.NewRecorder(), req))
	assert.False(t, rl.enforce(httptest.NewRecorder(), req))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.enforce(httptest.NewRecorder(), req))
}

func TestSensitiveRateLimitKeysLoginByIdentifier(t *testing.T) {
	limited := SensitiveRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)
		assert.Contains(t, body.String(), "identifier", "body must be replayable")
		w.WriteHeader(http.StatusNoContent)
	}))

	login := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"identifier":"Ravi","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, login("203.0.113.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.2:1"), "same identifier from another address")
}

func TestSensitiveRateLimitSharesBucketAcrossLoginAliases(t *testing.T) {
	limited := SensitiveRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	login := func(addr, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, login("203.0.113.10:1", `{"username":"Meena","password":"x"}`))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.11:1", `{"username":"meena","password":"x"}`))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.12:1", `{"identifier":"MEENA","password":"x"}`))

	assert.Equal(t, http.StatusNoContent, login("203.0.113.13:1", `{"email":"kiran@example.com","password":"x"}`))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.14:1", `{"email":"kiran@example.com","password":"x"}`))
}

func TestIdentifierOrIPKeyPrefersFirstNonEmptyField(t *testing.T) {
	key := IdentifierOrIPKey("identifier", "username", "email")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"identifier":" ","username":"Ravi","email":"r@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, "identifier:ravi", key(req))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, "ip:198.51.100.7", key(req))
}

func TestSensitiveRateScope(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   sensitiveScope
	}{
		{http.MethodPost, "/api/v1/auth/login", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/auth/refresh", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/salaries/generate", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/attendance/bulk", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/leaves/65f0c0ffee0000000000abcd/approve", sensitiveScopeActor},
		{http.MethodGet, "/api/v1/auth/me", sensitiveScopeNone},
		{http.MethodPost, "/api/v1/projects", sensitiveScopeNone},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		assert.Equal(t, tc.want, sensitiveRateScope(req), tc.path)
	}
}
