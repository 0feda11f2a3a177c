package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/query"
)

type fakeStore struct {
	users      map[string]User
	failCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]User{}}
}

func (f *fakeStore) Create(_ context.Context, u User) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) List(_ context.Context, _ query.Predicate, _ query.Page) ([]User, int, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeStore) TakenBy(_ context.Context, username, email, excludeID string) (string, error) {
	for _, u := range f.users {
		if u.ID == excludeID {
			continue
		}
		if username != "" && strings.EqualFold(u.Username, username) {
			return "username", nil
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return "email", nil
		}
	}
	return "", nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id, name, email, phone string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Name, u.Email, u.Phone = name, email, phone
	f.users[id] = u
	return nil
}

func (f *fakeStore) UpdateRole(_ context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	f.users[id] = u
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

type revokeRecorder struct {
	revoked []string
}

func (r *revokeRecorder) RevokeAll(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		Name:     "Ravi Kumar",
		Username: "ravi.k",
		Email:    "Ravi@Example.com",
		Phone:    "+91 98765 43210",
		Password: "password1",
		Role:     auth.RoleManager,
	}
}

func TestCreateHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	u, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, u.ID, 24)
	assert.Equal(t, "ravi@example.com", u.Email)
	assert.Equal(t, auth.RoleManager, u.Role)
	assert.NotEqual(t, "password1", u.PasswordHash)
	assert.NoError(t, auth.CheckPassword(u.PasswordHash, "password1"))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	cases := map[string]func(*CreateInput){
		"missing name":   func(in *CreateInput) { in.Name = " " },
		"short username": func(in *CreateInput) { in.Username = "ab" },
		"bad username":   func(in *CreateInput) { in.Username = "ravi k" },
		"bad email":      func(in *CreateInput) { in.Email = "not-an-email" },
		"short password": func(in *CreateInput) { in.Password = "short" },
		"unknown role":   func(in *CreateInput) { in.Role = "owner" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
}

func TestCreateDuplicateUsernameOrEmailConflicts(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	dupUsername := validInput()
	dupUsername.Email = "other@example.com"
	_, err = svc.Create(ctx, dupUsername)
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: "username_taken"}))

	dupEmail := validInput()
	dupEmail.Username = "someone"
	_, err = svc.Create(ctx, dupEmail)
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: "email_taken"}))
}

func TestCreateMapsUniqueIndexRace(t *testing.T) {
	store := newFakeStore()
	store.failCreate = &pgconn.PgError{Code: "23505", ConstraintName: "users_username_uniq"}
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), validInput())
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestRegisterForcesLabourerRole(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	in := validInput()
	in.Role = auth.RoleAdmin

	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleLabourer, u.Role)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()
	u, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	phone := "12345"
	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "12345", updated.Phone)
	assert.Equal(t, u.Name, updated.Name)
}

func TestChangeRoleRevokesSessions(t *testing.T) {
	recorder := &revokeRecorder{}
	svc := NewService(newFakeStore(), recorder)
	ctx := context.Background()
	u, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	updated, previous, err := svc.ChangeRole(ctx, u.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, previous)
	assert.Equal(t, auth.RoleAdmin, updated.Role)
	assert.Equal(t, []string{u.ID}, recorder.revoked)

	_, _, err = svc.ChangeRole(ctx, u.ID, "root")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	recorder := &revokeRecorder{}
	svc := NewService(newFakeStore(), recorder)
	ctx := context.Background()
	u, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, PasswordInput{CurrentPassword: "wrong", NewPassword: "newpassword"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, svc.ChangePassword(ctx, u.ID, PasswordInput{CurrentPassword: "password1", NewPassword: "newpassword"}))
	stored, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "newpassword"))
	assert.Len(t, recorder.revoked, 1)
}

func TestGetAndDelete(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "bad")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Get(ctx, "64b7f0c2a1b2c3d4e5f60718")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	u, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	deleted, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, deleted.ID)

	_, err = svc.Delete(ctx, u.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestFilterPredicate(t *testing.T) {
	pred, err := Filter{Role: "manager", Search: "ravi"}.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "WHERE role = $1 AND (name ILIKE $2 OR username ILIKE $2 OR email ILIKE $2)", pred.Where())

	_, err = Filter{Role: "boss"}.Predicate()
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
