package project

import (
	"context"
	"errors"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/objectid"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Predicate treats a missing start or end date as open-ended, so an
// undated project overlaps every window on that side.
func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		Enum("p.status", "status", f.Status, Statuses).
		ID("p.manager_id", "managerId", f.ManagerID).
		Contains(f.Search, "p.name", "p.location").
		Overlap("COALESCE(p.start_date, '-infinity')", "COALESCE(p.end_date, 'infinity')", "startDate", f.StartDate, "endDate", f.EndDate).
		Build()
}

func (s *Service) Create(ctx context.Context, in Input) (Project, error) {
	if in.Name == nil {
		return Project{}, apperr.Validation("name", "is required")
	}
	p := Project{Status: StatusPending}
	if err := apply(&p, in); err != nil {
		return Project{}, err
	}
	p.ID = objectid.New()
	if err := s.Store.Create(ctx, p); err != nil {
		return Project{}, mapWriteError(err)
	}
	return s.Get(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Project{}, err
	}
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Project{}, mapWriteError(err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Project], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Project]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Project]{}, err
	}
	return query.NewResult(page, items, total), nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Project, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if err := apply(&current, in); err != nil {
		return Project{}, err
	}
	if err := s.Store.Update(ctx, current); err != nil {
		return Project{}, mapWriteError(err)
	}
	return s.Get(ctx, current.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := query.RequireID("id", id)
	if err != nil {
		return err
	}
	return mapWriteError(s.Store.Delete(ctx, id))
}

func (s *Service) Assign(ctx context.Context, id string, labourerIDs []string) (Project, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Project{}, err
	}
	if len(labourerIDs) == 0 {
		return Project{}, apperr.Validation("labourerIds", "must contain at least one labourer")
	}
	seen := make(map[string]bool, len(labourerIDs))
	ids := make([]string, 0, len(labourerIDs))
	for _, raw := range labourerIDs {
		lid, err := query.RequireID("labourerIds", raw)
		if err != nil {
			return Project{}, err
		}
		if !seen[lid] {
			seen[lid] = true
			ids = append(ids, lid)
		}
	}

	if err := s.Store.Assign(ctx, id, ids); err != nil {
		var unknown *UnknownLabourersError
		if errors.As(err, &unknown) {
			return Project{}, &apperr.Error{
				Kind:    apperr.KindValidation,
				Code:    apperr.CodeValidation,
				Field:   "labourerIds",
				Message: "contains labourers that do not exist",
				Details: map[string]any{"unknown": unknown.IDs},
			}
		}
		return Project{}, mapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Unassign(ctx context.Context, id, labourerID string) (Project, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Project{}, err
	}
	labourerID, err = query.RequireID("labourerId", labourerID)
	if err != nil {
		return Project{}, err
	}
	if err := s.Store.Unassign(ctx, id, labourerID); err != nil {
		if db.IsNoRows(err) {
			return Project{}, apperr.NotFound("project assignment")
		}
		return Project{}, err
	}
	return s.Get(ctx, id)
}

func apply(p *Project, in Input) error {
	var err error
	if in.Name != nil {
		if p.Name, err = query.RequireText("name", *in.Name, 1, 200); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if p.Description, err = query.RequireText("description", *in.Description, 0, 2000); err != nil {
			return err
		}
	}
	if in.Location != nil {
		if p.Location, err = query.RequireText("location", *in.Location, 0, 300); err != nil {
			return err
		}
	}
	if in.StartDate != nil {
		if p.StartDate, err = query.OptionalDay("startDate", *in.StartDate); err != nil {
			return err
		}
	}
	if in.EndDate != nil {
		if p.EndDate, err = query.OptionalDay("endDate", *in.EndDate); err != nil {
			return err
		}
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return apperr.InvalidDateRange("startDate", "endDate")
	}
	if in.Status != nil {
		if p.Status, err = query.RequireEnum("status", *in.Status, Statuses); err != nil {
			return err
		}
	}
	if in.ManagerID != nil {
		id, err := query.OptionalID("managerId", *in.ManagerID)
		if err != nil {
			return err
		}
		p.ManagerID = nil
		if id != "" {
			p.ManagerID = &id
		}
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("project")
	case db.IsForeignKeyViolation(err):
		return apperr.Validation("managerId", "does not reference an existing user")
	case db.IsCheckViolation(err):
		return apperr.InvalidDateRange("startDate", "endDate")
	}
	return err
}
