package auth

import (
	"context"
	"strings"
	"time"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/objectid"
)

type Service struct {
	Store      StoreAPI
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

func NewService(store StoreAPI, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{Store: store, Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL, now: time.Now}
}

var (
	errInvalidCredentials = apperr.Unauthenticated("invalid credentials")
	errInvalidToken       = apperr.Unauthenticated("invalid or expired token")
)

// Authenticate exchanges a username or email plus password for a token pair.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (Tokens, error) {
	if strings.TrimSpace(identifier) == "" {
		return Tokens{}, apperr.Validation("identifier", "is required")
	}
	if password == "" {
		return Tokens{}, apperr.Validation("password", "is required")
	}
	creds, err := s.Store.FindCredentials(ctx, identifier)
	if err != nil {
		if db.IsNoRows(err) {
			return Tokens{}, errInvalidCredentials
		}
		return Tokens{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return Tokens{}, errInvalidCredentials
	}

	tokens, err := s.startSession(ctx, creds.UserID, creds.Role)
	if err != nil {
		return Tokens{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, creds.UserID); err != nil {
		log := logging.WithComponent("auth")
		log.Warn().Err(err).Str("userId", creds.UserID).Msg("update last login failed")
	}
	return tokens, nil
}

// Verify validates an access token and returns the identity it carries. The
// token's session must still be live, so logout and RevokeAll cut access
// immediately rather than at token expiry.
func (s *Service) Verify(ctx context.Context, token string) (UserContext, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return UserContext{}, errInvalidToken
	}
	if claims.UserID == "" || claims.SessionID == "" || !ValidRole(claims.Role) {
		return UserContext{}, errInvalidToken
	}
	active, err := s.Store.SessionActive(ctx, claims.SessionID, claims.UserID)
	if err != nil {
		return UserContext{}, err
	}
	if !active {
		return UserContext{}, apperr.Unauthenticated("session has ended")
	}
	return UserContext{UserID: claims.UserID, Role: claims.Role, SessionID: claims.SessionID}, nil
}

// Authorize allows role when it is one of allowed.
func Authorize(role string, allowed ...string) error {
	for _, candidate := range allowed {
		if role == candidate {
			return nil
		}
	}
	return apperr.Forbidden("insufficient permissions")
}

// Refresh rotates the session behind refreshToken and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Tokens{}, apperr.Validation("refreshToken", "is required")
	}
	oldHash := HashToken(refreshToken)
	session, err := s.Store.FindSession(ctx, oldHash)
	if err != nil {
		if db.IsNoRows(err) {
			return Tokens{}, apperr.Unauthenticated("session expired")
		}
		return Tokens{}, err
	}
	if session.RevokedAt != nil || !session.ExpiresAt.After(s.now()) {
		return Tokens{}, apperr.Unauthenticated("session expired")
	}

	role, err := s.Store.UserRole(ctx, session.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return Tokens{}, apperr.Unauthenticated("session expired")
		}
		return Tokens{}, err
	}

	next, err := newRefreshToken()
	if err != nil {
		return Tokens{}, err
	}
	rotated, err := s.Store.RotateSession(ctx, session.ID, oldHash, HashToken(next), s.now().Add(s.RefreshTTL))
	if err != nil {
		return Tokens{}, err
	}
	if !rotated {
		return Tokens{}, apperr.Unauthenticated("session expired")
	}
	return s.issue(session.UserID, role, session.ID, next)
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return s.Store.RevokeUserSessions(ctx, user.UserID)
	}
	return s.Store.RevokeSession(ctx, user.SessionID, user.UserID)
}

// RevokeAll ends every session of userID, used after password and role changes.
func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	return s.Store.RevokeUserSessions(ctx, userID)
}

func (s *Service) startSession(ctx context.Context, userID, role string) (Tokens, error) {
	refresh, err := newRefreshToken()
	if err != nil {
		return Tokens{}, err
	}
	session := Session{
		ID:           objectid.New(),
		UserID:       userID,
		RefreshToken: HashToken(refresh),
		ExpiresAt:    s.now().Add(s.RefreshTTL),
	}
	if err := s.Store.CreateSession(ctx, session); err != nil {
		return Tokens{}, err
	}
	return s.issue(userID, role, session.ID, refresh)
}

func (s *Service) issue(userID, role, sessionID, refresh string) (Tokens, error) {
	access, err := GenerateToken(s.Secret, Claims{UserID: userID, Role: role, SessionID: sessionID}, s.AccessTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
		UserID:       userID,
		Role:         role,
	}, nil
}
