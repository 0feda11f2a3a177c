package project

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/querier"
)

type Store struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *Store {
	return &Store{DB: db}
}

const projectSelect = `
    SELECT p.id, p.name, p.description, p.location, p.start_date, p.end_date, p.status, p.manager_id,
           COALESCE((SELECT array_agg(pl.labourer_id ORDER BY pl.assigned_at) FROM project_labourers pl WHERE pl.project_id = p.id), '{}'),
           p.created_at, p.updated_at
    FROM projects p`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Location, &p.StartDate, &p.EndDate, &p.Status, &p.ManagerID,
		&p.LabourerIDs, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) Create(ctx context.Context, p Project) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO projects (id, name, description, location, start_date, end_date, status, manager_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, p.ID, p.Name, p.Description, p.Location, p.StartDate, p.EndDate, p.Status, p.ManagerID)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Project, error) {
	return scanProject(s.DB.QueryRow(ctx, projectSelect+" WHERE p.id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Project, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM projects p "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY p.created_at DESC %s", projectSelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, p Project) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE projects
    SET name = $1, description = $2, location = $3, start_date = $4, end_date = $5, status = $6,
        manager_id = $7, updated_at = now()
    WHERE id = $8
  `, p.Name, p.Description, p.Location, p.StartDate, p.EndDate, p.Status, p.ManagerID, p.ID))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", id))
}

// Assign moves labourers onto the project. A labourer belongs to at most one
// project, so any previous membership is dropped in the same transaction.
func (s *Store) Assign(ctx context.Context, projectID string, labourerIDs []string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, "SELECT id FROM projects WHERE id = $1 FOR UPDATE", projectID).Scan(&locked); err != nil {
		return err
	}

	missing, err := missingLabourers(ctx, tx, labourerIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &UnknownLabourersError{IDs: missing}
	}

	if _, err := tx.Exec(ctx, `
    DELETE FROM project_labourers
    WHERE labourer_id = ANY($1) AND project_id <> $2
  `, labourerIDs, projectID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    INSERT INTO project_labourers (project_id, labourer_id)
    SELECT $1, unnest($2::text[])
    ON CONFLICT DO NOTHING
  `, projectID, labourerIDs); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE labourers SET project_id = $1, updated_at = now()
    WHERE id = ANY($2)
  `, projectID, labourerIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Unassign(ctx context.Context, projectID, labourerID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := db.AffectedOne(tx.Exec(ctx, `
    DELETE FROM project_labourers WHERE project_id = $1 AND labourer_id = $2
  `, projectID, labourerID)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE labourers SET project_id = NULL, updated_at = now()
    WHERE id = $1 AND project_id = $2
  `, labourerID, projectID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func missingLabourers(ctx context.Context, tx pgx.Tx, ids []string) ([]string, error) {
	rows, err := tx.Query(ctx, "SELECT id FROM labourers WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
