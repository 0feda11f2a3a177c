package leave

import (
	"context"
	"time"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Create(ctx context.Context, l Leave) error
	Get(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Leave, int, error)
	// Review moves a pending leave to status. It reports false when the
	// leave was no longer pending.
	Review(ctx context.Context, id, status string, reviewedBy *string, remark string, at time.Time) (bool, error)
	DeletePending(ctx context.Context, id string) (bool, error)
}
