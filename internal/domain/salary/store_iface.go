package salary

import (
	"context"
	"time"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	PresentDays(ctx context.Context, start, end time.Time) ([]PresentDays, error)
	Exists(ctx context.Context, key Key, excludeID string) (bool, error)
	Create(ctx context.Context, s Salary) error
	Get(ctx context.Context, id string) (Salary, error)
	Update(ctx context.Context, s Salary) error
	// MarkPaid reports false when the salary was not pending.
	MarkPaid(ctx context.Context, id string, paidOn time.Time) (bool, error)
	SetPayslipURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Salary, int, error)
	Totals(ctx context.Context, pred query.Predicate) (map[string]StatusTotal, error)
}
