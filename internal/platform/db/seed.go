package db

import (
	"context"

	"labourhub/internal/platform/querier"
)

type SeedAdmin struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string
}

// Seed creates the bootstrap admin account unless a user with the same
// username or email exists. It reports whether a row was inserted.
func Seed(ctx context.Context, q querier.Querier, admin SeedAdmin) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1) OR lower(email) = lower($2))
  `, admin.Username, admin.Email).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	tag, err := q.Exec(ctx, `
    INSERT INTO users (id, name, username, email, phone, role, password_hash)
    VALUES ($1,$2,$3,$4,'','admin',$5)
    ON CONFLICT DO NOTHING
  `, admin.ID, admin.Name, admin.Username, admin.Email, admin.PasswordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
