package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/user"
	"labourhub/internal/transport/http/api"
	"labourhub/internal/transport/http/middleware"
	"labourhub/internal/transport/http/shared"
)

type AuthService interface {
	Authenticate(ctx context.Context, identifier, password string) (auth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error)
	Logout(ctx context.Context, user auth.UserContext) error
}

type UserService interface {
	Register(ctx context.Context, in user.CreateInput) (user.User, error)
	Get(ctx context.Context, id string) (user.User, error)
}

type Handler struct {
	Auth            AuthService
	Users           UserService
	AllowSelfSignup bool
}

func NewHandler(authSvc AuthService, users UserService, allowSelfSignup bool) *Handler {
	return &Handler{Auth: authSvc, Users: users, AllowSelfSignup: allowSelfSignup}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.With(middleware.RequireAuth).Post("/logout", h.handleLogout)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.AllowSelfSignup {
		shared.WriteError(w, r, apperr.Forbidden("self signup is disabled"))
		return
	}
	var payload user.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	created, err := h.Users.Register(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	identifier := payload.Identifier
	if identifier == "" {
		identifier = payload.Username
	}
	if identifier == "" {
		identifier = payload.Email
	}
	tokens, err := h.Auth.Authenticate(r.Context(), identifier, payload.Password)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, tokens, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	tokens, err := h.Auth.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, tokens, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	if err := h.Auth.Logout(r.Context(), current); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetUser(r.Context())
	profile, err := h.Users.Get(r.Context(), current.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}
