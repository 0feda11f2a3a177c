package performance

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
)

type fakeStore struct {
	items map[string]Performance
	stats Stats
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]Performance{}}
}

func (f *fakeStore) Exists(_ context.Context, key Key, excludeID string) (bool, error) {
	for _, p := range f.items {
		if p.ID != excludeID && p.key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, p Performance) error {
	f.items[p.ID] = p
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Performance, error) {
	p, ok := f.items[id]
	if !ok {
		return Performance{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) Update(_ context.Context, p Performance) error {
	if _, ok := f.items[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) List(_ context.Context, _ query.Predicate, _ query.Page) ([]Performance, int, error) {
	var out []Performance
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeStore) Stats(_ context.Context, _ query.Predicate) (Stats, error) {
	return f.stats, nil
}

const (
	labourerID = "64b7f0c2a1b2c3d4e5f60701"
	projectID  = "64b7f0c2a1b2c3d4e5f60801"
	managerID  = "64b7f0c2a1b2c3d4e5f60901"
)

func strPtr(s string) *string      { return &s }
func scorePtr(f float64) *float64 { return &f }

func validInput(date string, score float64) Input {
	return Input{
		LabourerID: strPtr(labourerID),
		ProjectID:  strPtr(projectID),
		Date:       strPtr(date),
		Score:      scorePtr(score),
		Remarks:    strPtr("steady work"),
	}
}

func TestCreateAndDuplicate(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("2024-02-01", 87.5), managerID)
	require.NoError(t, err)
	assert.Equal(t, 87.5, p.Score)
	require.NotNil(t, p.EvaluatedBy)
	assert.Equal(t, managerID, *p.EvaluatedBy)

	_, err = svc.Create(ctx, validInput("2024-02-01", 40), managerID)
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: CodeDuplicate}))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	tooHigh := validInput("2024-02-01", 100.5)
	_, err := svc.Create(ctx, tooHigh, "")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "performanceScore", appErr.Field)

	negative := validInput("2024-02-01", -1)
	_, err = svc.Create(ctx, negative, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	blank := validInput("2024-02-01", 50)
	blank.Remarks = strPtr("")
	_, err = svc.Create(ctx, blank, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	missing := validInput("2024-02-01", 50)
	missing.ProjectID = nil
	_, err = svc.Create(ctx, missing, "")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "projectId", appErr.Field)

	edge, err := svc.Create(ctx, validInput("2024-02-02", 100), "")
	require.NoError(t, err)
	assert.Nil(t, edge.EvaluatedBy)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	first, err := svc.Create(ctx, validInput("2024-02-01", 70), managerID)
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput("2024-02-02", 80), managerID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, first.ID, Input{Score: scorePtr(75)}, "")
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Score)
	assert.Equal(t, "steady work", updated.Remarks)
	require.NotNil(t, updated.EvaluatedBy)

	_, err = svc.Update(ctx, second.ID, Input{Date: strPtr("2024-02-01")}, "")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestSummaryRoundsAverage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	summary, err := svc.SummaryByLabourer(ctx, labourerID, "", "")
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)

	store.stats = Stats{Count: 3, Sum: 200, Min: 50, Max: 80}
	summary, err = svc.SummaryByLabourer(ctx, labourerID, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, Summary{Count: 3, AverageScore: 66.67, MinScore: 50, MaxScore: 80}, summary)

	_, err = svc.SummaryByLabourer(ctx, labourerID, "2024-12-31", "2024-01-01")
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindValidation, Code: apperr.CodeInvalidDateRange}))
}

func TestFilterScoreBounds(t *testing.T) {
	pred, err := Filter{MinScore: "60", MaxScore: "90"}.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "WHERE pf.score >= $1 AND pf.score <= $2", pred.Where())
	assert.Equal(t, []any{60.0, 90.0}, pred.Args)

	_, err = Filter{MinScore: "high"}.Predicate()
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newFakeStore())
	err := svc.Delete(context.Background(), "64b7f0c2a1b2c3d4e5f6ffff")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
