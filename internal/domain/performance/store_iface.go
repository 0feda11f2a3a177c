package performance

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Exists(ctx context.Context, key Key, excludeID string) (bool, error)
	Create(ctx context.Context, p Performance) error
	Get(ctx context.Context, id string) (Performance, error)
	Update(ctx context.Context, p Performance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Performance, int, error)
	Stats(ctx context.Context, pred query.Predicate) (Stats, error)
}
