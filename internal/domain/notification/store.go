package notification

import (
	"context"
	"fmt"

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

const notificationSelect = `
    SELECT n.id, n.user_id, n.message, n.type, n.status, n.read_at, n.created_at
    FROM notifications n`

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Status, &n.ReadAt, &n.CreatedAt)
	return n, err
}

func (s *Store) Recipient(ctx context.Context, userID string) (Recipient, error) {
	r := Recipient{UserID: userID}
	err := s.DB.QueryRow(ctx, `
    SELECT name, email, phone
    FROM users
    WHERE id = $1
  `, userID).Scan(&r.Name, &r.Email, &r.Phone)
	return r, err
}

// LabourerUserID returns "" when the labourer has no linked account.
func (s *Store) LabourerUserID(ctx context.Context, labourerID string) (string, error) {
	var userID *string
	if err := s.DB.QueryRow(ctx, "SELECT user_id FROM labourers WHERE id = $1", labourerID).Scan(&userID); err != nil {
		return "", err
	}
	if userID == nil {
		return "", nil
	}
	return *userID, nil
}

func (s *Store) Create(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, user_id, message, type, status)
    VALUES ($1,$2,$3,$4,$5)
  `, n.ID, n.UserID, n.Message, n.Type, n.Status)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Notification, error) {
	return scanNotification(s.DB.QueryRow(ctx, notificationSelect+" WHERE n.id = $1 AND n.lifecycle = 'active'", id))
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE notifications
    SET status = 'read', read_at = COALESCE(read_at, now())
    WHERE id = $1 AND lifecycle = 'active'
  `, id))
}

func (s *Store) SoftDelete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE notifications
    SET lifecycle = 'deleted', deleted_at = now()
    WHERE id = $1 AND lifecycle = 'active'
  `, id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Notification, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications n "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY n.created_at DESC %s", notificationSelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}
