package attendance

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Exists(ctx context.Context, key Key, excludeID string) (bool, error)
	Create(ctx context.Context, a Attendance) error
	Get(ctx context.Context, id string) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Attendance, int, error)
	Export(ctx context.Context, pred query.Predicate, max int) ([]Attendance, error)
	CountByStatus(ctx context.Context, pred query.Predicate) (map[string]int, error)
}
