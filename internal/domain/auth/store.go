package auth

import (
	"context"
	"strings"
	"time"

	"labourhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// FindCredentials matches either the username or the email, case-insensitively.
func (s *Store) FindCredentials(ctx context.Context, identifier string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, role, password_hash
    FROM users
    WHERE lower(username) = $1 OR lower(email) = $1
    LIMIT 1
  `, strings.ToLower(strings.TrimSpace(identifier))).Scan(&out.UserID, &out.Role, &out.PasswordHash)
	return out, err
}

func (s *Store) UserRole(ctx context.Context, userID string) (string, error) {
	var role string
	if err := s.DB.QueryRow(ctx, "SELECT role FROM users WHERE id = $1", userID).Scan(&role); err != nil {
		return "", err
	}
	return role, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE id = $1", userID)
	return err
}

func (s *Store) CreateSession(ctx context.Context, session Session) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (id, user_id, refresh_token, expires_at)
    VALUES ($1,$2,$3,$4)
  `, session.ID, session.UserID, session.RefreshToken, session.ExpiresAt)
	return err
}

func (s *Store) FindSession(ctx context.Context, refreshTokenHash string) (Session, error) {
	var out Session
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, refresh_token, expires_at, revoked_at
    FROM sessions
    WHERE refresh_token = $1
  `, refreshTokenHash).Scan(&out.ID, &out.UserID, &out.RefreshToken, &out.ExpiresAt, &out.RevokedAt)
	return out, err
}

// RotateSession swaps the stored hash only if it still matches oldHash, so a
// refresh token can be exchanged at most once.
func (s *Store) RotateSession(ctx context.Context, sessionID, oldHash, newHash string, expires time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE sessions
    SET refresh_token = $1, expires_at = $2, rotated_at = now()
    WHERE id = $3 AND refresh_token = $4 AND revoked_at IS NULL
  `, newHash, expires, sessionID, oldHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) RevokeSession(ctx context.Context, sessionID, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL", sessionID, userID)
	return err
}

func (s *Store) RevokeUserSessions(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL", userID)
	return err
}

// SessionActive reports whether the session is unrevoked and unexpired.
// Deleting a user cascades to its sessions, which ends them too.
func (s *Store) SessionActive(ctx context.Context, sessionID, userID string) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM sessions
      WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL AND expires_at > now()
    )
  `, sessionID, userID).Scan(&active)
	return active, err
}
