package user

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/objectid"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// SessionRevoker ends a user's sessions after credential or role changes.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type Service struct {
	Store    StoreAPI
	Sessions SessionRevoker
}

func NewService(store StoreAPI, sessions SessionRevoker) *Service {
	return &Service{Store: store, Sessions: sessions}
}

func (f Filter) Predicate() (query.Predicate, error) {
	return query.NewBuilder().
		Enum("role", "role", f.Role, auth.Roles).
		Contains(f.Search, "name", "username", "email").
		Build()
}

// Register is self-signup; the account is always a labourer.
func (s *Service) Register(ctx context.Context, in CreateInput) (User, error) {
	in.Role = auth.RoleLabourer
	return s.Create(ctx, in)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	u, err := validateCreate(in)
	if err != nil {
		return User{}, err
	}
	if err := s.ensureAvailable(ctx, u.Username, u.Email, ""); err != nil {
		return User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u.ID = objectid.New()
	u.PasswordHash = hash
	if err := s.Store.Create(ctx, u); err != nil {
		return User{}, mapWriteError(err)
	}
	return s.Get(ctx, u.ID)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	id, err := query.RequireID("id", id)
	if err != nil {
		return User{}, err
	}
	u, err := s.Store.Get(ctx, id)
	if err != nil {
		return User{}, mapWriteError(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page query.Page) (query.Result[User], error) {
	pred, err := filter.Predicate()
	if err != nil {
		return query.Result[User]{}, err
	}
	users, total, err := s.Store.List(ctx, pred, page)
	if err != nil {
		return query.Result[User]{}, err
	}
	return query.NewResult(page, users, total), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	name, email, phone := current.Name, current.Email, current.Phone
	if in.Name != nil {
		if name, err = query.RequireText("name", *in.Name, 1, 100); err != nil {
			return User{}, err
		}
	}
	if in.Email != nil {
		if email, err = validateEmail(*in.Email); err != nil {
			return User{}, err
		}
		if err := s.ensureAvailable(ctx, "", email, current.ID); err != nil {
			return User{}, err
		}
	}
	if in.Phone != nil {
		if phone, err = query.RequireText("phone", *in.Phone, 0, 20); err != nil {
			return User{}, err
		}
	}

	if err := s.Store.UpdateProfile(ctx, current.ID, name, email, phone); err != nil {
		return User{}, mapWriteError(err)
	}
	return s.Get(ctx, current.ID)
}

// ChangeRole returns the updated user and the role it had before.
func (s *Service) ChangeRole(ctx context.Context, id, role string) (User, string, error) {
	role, err := query.RequireEnum("role", role, auth.Roles)
	if err != nil {
		return User{}, "", err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, "", err
	}
	if err := s.Store.UpdateRole(ctx, current.ID, role); err != nil {
		return User{}, "", mapWriteError(err)
	}
	if current.Role != role {
		s.revoke(ctx, current.ID)
	}
	updated, err := s.Get(ctx, current.ID)
	return updated, current.Role, err
}

func (s *Service) ChangePassword(ctx context.Context, id string, in PasswordInput) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(current.PasswordHash, in.CurrentPassword); err != nil {
		return apperr.Validation("currentPassword", "is incorrect")
	}
	if err := validatePassword("newPassword", in.NewPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Store.UpdatePassword(ctx, current.ID, hash); err != nil {
		return mapWriteError(err)
	}
	s.revoke(ctx, current.ID)
	return nil
}

// Delete removes the account and returns what was removed.
func (s *Service) Delete(ctx context.Context, id string) (User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := s.Store.Delete(ctx, current.ID); err != nil {
		return User{}, mapWriteError(err)
	}
	return current, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email, excludeID string) error {
	taken, err := s.Store.TakenBy(ctx, username, email, excludeID)
	if err != nil {
		return err
	}
	switch taken {
	case "username":
		return apperr.Conflict("username_taken", "username is already in use")
	case "email":
		return apperr.Conflict("email_taken", "email is already in use")
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, userID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.RevokeAll(ctx, userID); err != nil {
		log := logging.WithComponent("user")
		log.Warn().Err(err).Str("userId", userID).Msg("revoke sessions failed")
	}
}

func validateCreate(in CreateInput) (User, error) {
	var u User
	var err error
	if u.Name, err = query.RequireText("name", in.Name, 1, 100); err != nil {
		return User{}, err
	}
	if u.Username, err = query.RequireText("username", in.Username, 3, 50); err != nil {
		return User{}, err
	}
	if !usernamePattern.MatchString(u.Username) {
		return User{}, apperr.Validation("username", "may contain only letters, digits, '.', '_' and '-'")
	}
	if u.Email, err = validateEmail(in.Email); err != nil {
		return User{}, err
	}
	if u.Phone, err = query.RequireText("phone", in.Phone, 0, 20); err != nil {
		return User{}, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return User{}, err
	}
	u.Role = auth.RoleLabourer
	if strings.TrimSpace(in.Role) != "" {
		if u.Role, err = query.RequireEnum("role", in.Role, auth.Roles); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

func validateEmail(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperr.Validation("email", "is required")
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", apperr.Validation("email", "must be a valid email address")
	}
	return strings.ToLower(value), nil
}

func validatePassword(field, password string) error {
	if len(password) < 8 {
		return apperr.Validation(field, "must be at least 8 characters")
	}
	if len(password) > 72 {
		return apperr.Validation(field, "must be at most 72 bytes")
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsNoRows(err):
		return apperr.NotFound("user")
	case db.IsUniqueViolation(err):
		if db.ConstraintName(err) == "users_username_uniq" {
			return apperr.Conflict("username_taken", "username is already in use")
		}
		return apperr.Conflict("email_taken", "email is already in use")
	}
	return err
}
