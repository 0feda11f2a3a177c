package labourer

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

const labourerSelect = `
    SELECT l.id, l.user_id, l.name, l.phone, l.address, l.gender, l.date_of_birth, l.skill_type, l.status,
           l.project_id, l.joined_at, l.created_at, l.updated_at,
           u.id, u.name, u.username, u.email,
           p.id, p.name, p.location, p.status
    FROM labourers l
    LEFT JOIN users u ON u.id = l.user_id
    LEFT JOIN projects p ON p.id = l.project_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanLabourer(row scanner) (Labourer, error) {
	var l Labourer
	var userID, userName, username, userEmail *string
	var projectID, projectName, projectLocation, projectStatus *string
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Phone, &l.Address, &l.Gender, &l.DateOfBirth, &l.SkillType, &l.Status,
		&l.ProjectID, &l.JoinedAt, &l.CreatedAt, &l.UpdatedAt,
		&userID, &userName, &username, &userEmail,
		&projectID, &projectName, &projectLocation, &projectStatus)
	if err != nil {
		return Labourer{}, err
	}
	if userID != nil {
		l.User = &UserSummary{ID: *userID, Name: deref(userName), Username: deref(username), Email: deref(userEmail)}
	}
	if projectID != nil {
		l.Project = &ProjectSummary{ID: *projectID, Name: deref(projectName), Location: deref(projectLocation), Status: deref(projectStatus)}
	}
	return l, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Store) Create(ctx context.Context, l Labourer) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO labourers (id, user_id, name, phone, address, gender, date_of_birth, skill_type, status, project_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, l.ID, l.UserID, l.Name, l.Phone, l.Address, l.Gender, l.DateOfBirth, l.SkillType, l.Status, l.ProjectID)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Labourer, error) {
	return scanLabourer(s.DB.QueryRow(ctx, labourerSelect+" WHERE l.id = $1", id))
}

func (s *Store) List(ctx context.Context, pred query.Predicate, page query.Page) ([]Labourer, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM labourers l "+pred.Where(), pred.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := pred.Limit(page)
	rows, err := s.DB.Query(ctx, fmt.Sprintf("%s %s ORDER BY l.created_at DESC %s", labourerSelect, pred.Where(), limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Labourer
	for rows.Next() {
		l, err := scanLabourer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, l Labourer) error {
	return db.AffectedOne(s.DB.Exec(ctx, `
    UPDATE labourers
    SET user_id = $1, name = $2, phone = $3, address = $4, gender = $5, date_of_birth = $6,
        skill_type = $7, status = $8, project_id = $9, updated_at = now()
    WHERE id = $10
  `, l.UserID, l.Name, l.Phone, l.Address, l.Gender, l.DateOfBirth, l.SkillType, l.Status, l.ProjectID, l.ID))
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "UPDATE labourers SET status = $1, updated_at = now() WHERE id = $2", status, id))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return db.AffectedOne(s.DB.Exec(ctx, "DELETE FROM labourers WHERE id = $1", id))
}

func (s *Store) IDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, "SELECT id FROM labourers WHERE user_id = $1", userID).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
