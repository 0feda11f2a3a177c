package middleware

import (
	"context"
	"net/http"
	"strings"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/platform/logging"
	"labourhub/internal/transport/http/shared"
)

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.UserContext, error)
}

// Auth attaches the caller to the context when a valid bearer token is
// present. Requests without one pass through; RequireAuth rejects them.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if apperr.KindOf(err) != apperr.KindUnauthenticated {
					log := logging.WithComponent("auth")
					log.Warn().Err(err).
						Str("request_id", GetRequestID(r.Context())).
						Msg("token verification failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			shared.WriteError(w, r, apperr.Unauthenticated("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows the request only for the listed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				shared.WriteError(w, r, apperr.Unauthenticated("authentication required"))
				return
			}
			if err := auth.Authorize(user.Role, roles...); err != nil {
				shared.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
