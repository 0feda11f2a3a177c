package auth

import "time"

// UserContext is the verified identity attached to a request.
type UserContext struct {
	UserID    string
	Role      string
	SessionID string
}

func (u UserContext) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

type Credentials struct {
	UserID       string
	Role         string
	PasswordHash string
}

type Session struct {
	ID           string
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time
	RevokedAt    *time.Time
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	UserID       string `json:"userId"`
	Role         string `json:"role"`
}
