package leave

import (
	"context"
	"fmt"
	"time"

	"labourhub/internal/domain/query"
	"labourhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const leaveSelect = `
    SELECT lv.id, lv.labourer_id, COALESCE(l.name, ''), lv.from_date, lv.to_date, lv.reason, lv.status,
           lv.applied_on, lv.reviewed_by, lv.reviewed_at, lv.remark
    FROM leaves lv
    LEFT JOIN labourers l ON l.id = lv.labourer_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanLeave(row scanner) (Leave, error) {
	var l Leave
	err := row.Scan(&l.ID, &l.LabourerID, &l.LabourerName, &l.FromDate, &l.ToDate, &l.Reason, &l.Status,
		&l.AppliedOn, &l.ReviewedBy, &l.ReviewedAt, &l.Remark)
	return l, err
}

func (s *Store) Create(ctx context.Context, l Leave) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leaves (id, labourer_id, from_date, to_date, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, l.ID, l.LabourerID, l.FromDate, l.ToDate, l.Reason, l.Status)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Leave, error) {
	return scanLeave(s.DB.QueryRow(ctx, leaveSelect+" WHERE lv.id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Leave, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves lv "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY lv.applied_on DESC %s", leaveSelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (s *Store) Review(ctx context.Context, id, status string, reviewedBy *string, remark string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leaves
    SET status = $1, reviewed_by = $2, reviewed_at = $3, remark = $4
    WHERE id = $5 AND status = 'pending'
  `, status, reviewedBy, at, remark, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) DeletePending(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1 AND status = 'pending'", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
