package project

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Create(ctx context.Context, p Project) error
	Get(ctx context.Context, id string) (Project, error)
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Project, int, error)
	Update(ctx context.Context, p Project) error
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, projectID string, labourerIDs []string) error
	Unassign(ctx context.Context, projectID, labourerID string) error
}
