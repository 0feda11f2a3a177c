package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
)

// DecodeJSON reads a single JSON document from the request body.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.InvalidPayload("request body is required")
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.InvalidPayload("request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.InvalidPayload("request body is required")
		}
		return apperr.InvalidPayload("request body must be valid JSON")
	}
	return nil
}

// ParsePage reads page and limit (or pageSize). Bad values fall back to the
// defaults instead of failing the request.
func ParsePage(r *http.Request) query.Page {
	q := r.URL.Query()
	limit := q.Get("limit")
	if limit == "" {
		limit = q.Get("pageSize")
	}
	return query.ParsePage(q.Get("page"), limit)
}

// PathID returns a URL parameter. Syntax is checked by the services.
func PathID(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if value := strings.TrimSpace(first); value != "" {
			return value
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
