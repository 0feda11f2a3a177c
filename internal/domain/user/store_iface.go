package user

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]User, int, error)
	TakenBy(ctx context.Context, username, email, excludeID string) (string, error)
	UpdateProfile(ctx context.Context, id, name, email, phone string) error
	UpdateRole(ctx context.Context, id, role string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
