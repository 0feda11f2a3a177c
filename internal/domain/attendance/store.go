package attendance

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

const attendanceSelect = `
    SELECT a.id, a.labourer_id, a.project_id, a.date, a.shift, a.status, a.marked_by, a.created_at, a.updated_at,
           COALESCE(l.name, ''), COALESCE(p.name, '')
    FROM attendance a
    LEFT JOIN labourers l ON l.id = a.labourer_id
    LEFT JOIN projects p ON p.id = a.project_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row scanner) (Attendance, error) {
	var a Attendance
	err := row.Scan(&a.ID, &a.LabourerID, &a.ProjectID, &a.Date, &a.Shift, &a.Status, &a.MarkedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.LabourerName, &a.ProjectName)
	return a, err
}

func (s *Store) Exists(ctx context.Context, key Key, excludeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM attendance
      WHERE labourer_id = $1 AND project_id = $2 AND date = $3 AND shift = $4 AND id <> $5
    )
  `, key.LabourerID, key.ProjectID, key.Date, key.Shift, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) Create(ctx context.Context, a Attendance) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO attendance (id, labourer_id, project_id, date, shift, status, marked_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, a.ID, a.LabourerID, a.ProjectID, a.Date, a.Shift, a.Status, a.MarkedBy)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Attendance, error) {
	return scanAttendance(s.DB.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
}

func (s *Store) Update(ctx context.Context, a Attendance) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE attendance
    SET labourer_id = $1, project_id = $2, date = $3, shift = $4, status = $5, marked_by = $6, updated_at = now()
    WHERE id = $7
  `, a.LabourerID, a.ProjectID, a.Date, a.Shift, a.Status, a.MarkedBy, a.ID))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Attendance, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance a "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	out, err := s.collect(ctx, fmt.Sprintf("%s %s ORDER BY a.date DESC, a.created_at DESC %s", attendanceSelect, pred.Where(), limit), args)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Export(ctx context.Context, pred query.Predicate, max int) ([]Attendance, error) {
	args := append(append([]any{}, pred.Args...), max)
	sql := fmt.Sprintf("%s %s ORDER BY a.date DESC, a.created_at DESC LIMIT $%d", attendanceSelect, pred.Where(), len(args))
	return s.collect(ctx, sql, args)
}

func (s *Store) CountByStatus(ctx context.Context, pred query.Predicate) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, "SELECT a.status, COUNT(1) FROM attendance a "+pred.Where()+" GROUP BY a.status", pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (s *Store) collect(ctx context.Context, sql string, args []any) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
