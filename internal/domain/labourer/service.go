package labourer

import (
	"context"
	"strings"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
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

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		Enum("l.status", "status", f.Status, Statuses).
		ID("l.project_id", "projectId", f.ProjectID).
		ID("l.user_id", "userId", f.UserID).
		Contains(f.SkillType, "l.skill_type").
		Contains(f.Search, "l.name").
		Build()
}

func (s *Service) Create(ctx context.Context, in Input) (Labourer, error) {
	l := Labourer{Status: StatusActive}
	if in.Name == nil {
		return Labourer{}, apperr.Validation("name", "is required")
	}
	if in.SkillType == nil {
		return Labourer{}, apperr.Validation("skillType", "is required")
	}
	if err := apply(&l, in); err != nil {
		return Labourer{}, err
	}
	l.ID = objectid.New()
	if err := s.Store.Create(ctx, l); err != nil {
		return Labourer{}, mapWriteError(err)
	}
	return s.Get(ctx, l.ID)
}

func (s *Service) Get(ctx context.Context, id string) (Labourer, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Labourer{}, err
	}
	l, err := s.Store.Get(ctx, id)
	if err != nil {
		return Labourer{}, mapWriteError(err)
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[Labourer], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[Labourer]{}, err
	}
	items, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[Labourer]{}, err
	}
	return query.NewResult(page, items, total), nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Labourer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Labourer{}, err
	}
	if err := apply(&current, in); err != nil {
		return Labourer{}, err
	}
	if err := s.Store.Update(ctx, current); err != nil {
		return Labourer{}, mapWriteError(err)
	}
	return s.Get(ctx, current.ID)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Labourer, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return Labourer{}, err
	}
	status, err = query.RequireEnum("status", status, Statuses)
	if err != nil {
		return Labourer{}, err
	}
	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		return Labourer{}, mapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := query.RequireID("id", id)
	if err != nil {
		return err
	}
	return mapWriteError(s.Store.Delete(ctx, id))
}

// ByUserID finds the labourer profile linked to a login account.
func (s *Service) ByUserID(ctx context.Context, userID string) (string, error) {
	id, err := s.Store.IDByUserID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return "", apperr.NotFound("labourer profile")
		}
		return "", err
	}
	return id, nil
}

// Scope resolves the labourer a caller may query. Staff pass requested through
// unchanged; labourer accounts are pinned to their own profile and may not
// ask for anyone else's.
func (s *Service) Scope(ctx context.Context, user auth.UserContext, requested string) (string, error) {
	if user.IsStaff() {
		return requested, nil
	}
	own, err := s.ByUserID(ctx, user.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", apperr.Forbidden("no labourer profile is linked to this account")
		}
		return "", err
	}
	if r := objectid.Normalize(requested); r != "" && r != own {
		return "", apperr.Forbidden("labourers may only access their own records")
	}
	return own, nil
}

// Owns checks that user may see a record belonging to labourerID.
func (s *Service) Owns(ctx context.Context, user auth.UserContext, labourerID string) error {
	if user.IsStaff() {
		return nil
	}
	_, err := s.Scope(ctx, user, labourerID)
	return err
}

func apply(l *Labourer, in Input) error {
	var err error
	if in.Name != nil {
		if l.Name, err = query.RequireText("name", *in.Name, 1, 100); err != nil {
			return err
		}
	}
	if in.SkillType != nil {
		if l.SkillType, err = query.RequireText("skillType", *in.SkillType, 1, 50); err != nil {
			return err
		}
	}
	if in.Phone != nil {
		if l.Phone, err = query.RequireText("phone", *in.Phone, 0, 20); err != nil {
			return err
		}
	}
	if in.Address != nil {
		if l.Address, err = query.RequireText("address", *in.Address, 0, 300); err != nil {
			return err
		}
	}
	if in.Gender != nil {
		if l.Gender, err = query.RequireText("gender", *in.Gender, 0, 20); err != nil {
			return err
		}
	}
	if in.DateOfBirth != nil {
		if l.DateOfBirth, err = query.OptionalDay("dateOfBirth", *in.DateOfBirth); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if l.Status, err = query.RequireEnum("status", *in.Status, Statuses); err != nil {
			return err
		}
	}
	if in.UserID != nil {
		if l.UserID, err = optionalRef("userId", *in.UserID); err != nil {
			return err
		}
	}
	if in.ProjectID != nil {
		if l.ProjectID, err = optionalRef("projectId", *in.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// optionalRef maps "" to a cleared reference.
func optionalRef(field, raw string) (*string, error) {
	id, err := query.OptionalID(field, raw)
	if err != nil || id == "" {
		return nil, err
	}
	return &id, nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return apperr.NotFound("labourer")
	case db.IsUniqueViolation(err):
		return apperr.Conflict("labourer_user_taken", "user is already linked to another labourer")
	case db.IsForeignKeyViolation(err):
		if strings.Contains(db.ConstraintName(err), "user_id") {
			return apperr.Validation("userId", "does not reference an existing user")
		}
		return apperr.Validation("projectId", "does not reference an existing project")
	}
	return err
}
