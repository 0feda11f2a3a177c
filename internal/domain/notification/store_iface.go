package notification

import (
	"context"

	"labourhub/internal/domain/query"
)

type StoreAPI interface {
	Recipient(ctx context.Context, userID string) (Recipient, error)
	LabourerUserID(ctx context.Context, labourerID string) (string, error)
	Create(ctx context.Context, n Notification) error
	// Get only returns active notifications.
	Get(ctx context.Context, id string) (Notification, error)
	MarkRead(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]Notification, int, error)
}
