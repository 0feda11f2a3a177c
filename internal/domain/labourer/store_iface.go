package labourer

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Create(ctx context.Context, l Labourer) error
	Get(ctx context.Context, id string) (Labourer, error)
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Labourer, int, error)
	Update(ctx context.Context, l Labourer) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	IDByUserID(ctx context.Context, userID string) (string, error)
}
