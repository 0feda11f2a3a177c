package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindCredentials(ctx context.Context, identifier string) (Credentials, error)
	UserRole(ctx context.Context, userID string) (string, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	CreateSession(ctx context.Context, session Session) error
	FindSession(ctx context.Context, refreshTokenHash string) (Session, error)
	RotateSession(ctx context.Context, sessionID, oldHash, newHash string, expires time.Time) (bool, error)
	RevokeSession(ctx context.Context, sessionID, userID string) error
	RevokeUserSessions(ctx context.Context, userID string) error
	SessionActive(ctx context.Context, sessionID, userID string) (bool, error)
}
