package user

import (
	"context"
	"fmt"
	"strings"

	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, name, username, email, phone, role, password_hash, last_login_at, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Role, &u.PasswordHash, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) Create(ctx context.Context, u User) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, name, username, email, phone, role, password_hash)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, u.ID, u.Name, u.Username, u.Email, u.Phone, u.Role, u.PasswordHash)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]User, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("SELECT %s FROM users %s ORDER BY created_at DESC %s", userColumns, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// TakenBy reports which of username or email already belongs to another user.
func (s *Store) TakenBy(ctx context.Context, username, email, excludeID string) (string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lower(username) = lower($1), lower(email) = lower($2)
    FROM users
    WHERE (lower(username) = lower($1) OR lower(email) = lower($2)) AND id <> $3
  `, strings.TrimSpace(username), strings.TrimSpace(email), excludeID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	for rows.Next() {
		var sameUsername, sameEmail bool
		if err := rows.Scan(&sameUsername, &sameEmail); err != nil {
			return "", err
		}
		if sameUsername {
			return "username", nil
		}
		if sameEmail {
			return "email", nil
		}
	}
	return "", rows.Err()
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, email, phone string) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE users SET name = $1, email = $2, phone = $3, updated_at = now()
    WHERE id = $4
  `, name, email, phone, id))
}

func (s *Store) UpdateRole(ctx context.Context, id, role string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "UPDATE users SET role = $1, updated_at = now() WHERE id = $2", role, id))
}

func (s *Store) UpdatePassword(ctx context.Context, id, hash string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", hash, id))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id))
}
