package performance

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

const performanceSelect = `
    SELECT pf.id, pf.labourer_id, pf.project_id, pf.date, pf.score::float8, pf.remarks, pf.evaluated_by,
           pf.created_at, pf.updated_at, COALESCE(l.name, ''), COALESCE(p.name, '')
    FROM performance pf
    LEFT JOIN labourers l ON l.id = pf.labourer_id
    LEFT JOIN projects p ON p.id = pf.project_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row scanner) (Performance, error) {
	var p Performance
	err := row.Scan(&p.ID, &p.LabourerID, &p.ProjectID, &p.Date, &p.Score, &p.Remarks, &p.EvaluatedBy,
		&p.CreatedAt, &p.UpdatedAt, &p.LabourerName, &p.ProjectName)
	return p, err
}

func (s *Store) Exists(ctx context.Context, key Key, excludeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM performance
      WHERE labourer_id = $1 AND project_id = $2 AND date = $3 AND id <> $4
    )
  `, key.LabourerID, key.ProjectID, key.Date, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) Create(ctx context.Context, p Performance) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO performance (id, labourer_id, project_id, date, score, remarks, evaluated_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, p.ID, p.LabourerID, p.ProjectID, p.Date, p.Score, p.Remarks, p.EvaluatedBy)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Performance, error) {
	return scanPerformance(s.DB.QueryRow(ctx, performanceSelect+" WHERE pf.id = $1", id))
}

func (s *Store) Update(ctx context.Context, p Performance) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE performance
    SET labourer_id = $1, project_id = $2, date = $3, score = $4, remarks = $5, evaluated_by = $6, updated_at = now()
    WHERE id = $7
  `, p.LabourerID, p.ProjectID, p.Date, p.Score, p.Remarks, p.EvaluatedBy, p.ID))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM performance WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Performance, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance pf "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY pf.date DESC, pf.created_at DESC %s", performanceSelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Performance
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *Store) Stats(ctx context.Context, pred query.Predicate) (Stats, error) {
	var st Stats
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(SUM(pf.score), 0)::float8, COALESCE(MIN(pf.score), 0)::float8, COALESCE(MAX(pf.score), 0)::float8
    FROM performance pf `+pred.Where(), pred.Args...).Scan(&st.Count, &st.Sum, &st.Min, &st.Max)
	return st, err
}
