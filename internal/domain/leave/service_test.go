package leave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
)

type fakeStore struct {
	items map[string]Leave
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]Leave{}}
}

func (f *fakeStore) Create(_ context.Context, l Leave) error {
	l.AppliedOn = time.Now()
	f.items[l.ID] = l
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Leave, error) {
	l, ok := f.items[id]
	if !ok {
		return Leave{}, pgx.ErrNoRows
	}
	return l, nil
}

func (f *fakeStore) List(_ context.Context, _ query.Predicate, _ query.Page) ([]Leave, int, error) {
	var out []Leave
	for _, l := range f.items {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeStore) Review(_ context.Context, id, status string, reviewedBy *string, remark string, at time.Time) (bool, error) {
	l, ok := f.items[id]
	if !ok || l.Status != StatusPending {
		return false, nil
	}
	l.Status, l.ReviewedBy, l.Remark, l.ReviewedAt = status, reviewedBy, remark, &at
	f.items[id] = l
	return true, nil
}

func (f *fakeStore) DeletePending(_ context.Context, id string) (bool, error) {
	l, ok := f.items[id]
	if !ok || l.Status != StatusPending {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

type recordingNotifier struct {
	labourers []string
	subjects  []string
	err       error
}

func (n *recordingNotifier) NotifyLabourer(_ context.Context, labourerID, subject, _ string) error {
	n.labourers = append(n.labourers, labourerID)
	n.subjects = append(n.subjects, subject)
	return n.err
}

const (
	labourerID = "64b7f0c2a1b2c3d4e5f60701"
	reviewerID = "64b7f0c2a1b2c3d4e5f60901"
)

func apply(t *testing.T, svc *Service) Leave {
	t.Helper()
	l, err := svc.Apply(context.Background(), ApplyInput{
		LabourerID: labourerID,
		FromDate:   "2024-06-10",
		ToDate:     "2024-06-12",
		Reason:     "family event",
	})
	require.NoError(t, err)
	return l
}

func TestApplyValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	cases := map[string]ApplyInput{
		"bad labourer":   {LabourerID: "x", FromDate: "2024-06-10", ToDate: "2024-06-11", Reason: "r"},
		"bad from date":  {LabourerID: labourerID, FromDate: "tomorrow", ToDate: "2024-06-11", Reason: "r"},
		"reversed range": {LabourerID: labourerID, FromDate: "2024-06-12", ToDate: "2024-06-10", Reason: "r"},
		"empty reason":   {LabourerID: labourerID, FromDate: "2024-06-10", ToDate: "2024-06-11", Reason: "  "},
		"long reason":    {LabourerID: labourerID, FromDate: "2024-06-10", ToDate: "2024-06-11", Reason: strings.Repeat("a", 501)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Apply(ctx, in)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}

	single, err := svc.Apply(ctx, ApplyInput{LabourerID: labourerID, FromDate: "2024-06-10", ToDate: "2024-06-10", Reason: "one day"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, single.Status)
}

func TestApproveOnlyFromPending(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newFakeStore(), notifier)
	ctx := context.Background()
	l := apply(t, svc)

	approved, err := svc.Approve(ctx, l.ID, reviewerID, ReviewInput{Remark: "ok"})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, reviewerID, *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, []string{labourerID}, notifier.labourers)
	assert.Equal(t, []string{"Leave approved"}, notifier.subjects)

	_, err = svc.Reject(ctx, l.ID, reviewerID, ReviewInput{})
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: CodeInvalidState}))
	assert.Contains(t, err.Error(), "approved")

	_, err = svc.Approve(ctx, l.ID, reviewerID, ReviewInput{})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Len(t, notifier.labourers, 1)
}

func TestRejectSurvivesNotifierFailure(t *testing.T) {
	svc := NewService(newFakeStore(), &recordingNotifier{err: errors.New("smtp down")})
	l := apply(t, svc)

	rejected, err := svc.Reject(context.Background(), l.ID, reviewerID, ReviewInput{Remark: "short staffed"})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "short staffed", rejected.Remark)
}

func TestCancelOnlyPending(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	pending := apply(t, svc)
	require.NoError(t, svc.Cancel(ctx, pending.ID))
	_, err := svc.Get(ctx, pending.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	reviewed := apply(t, svc)
	_, err = svc.Reject(ctx, reviewed.ID, "", ReviewInput{})
	require.NoError(t, err)
	err = svc.Cancel(ctx, reviewed.ID)
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict, Code: CodeInvalidState}))
}

func TestReviewUnknownLeave(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.Approve(context.Background(), "64b7f0c2a1b2c3d4e5f6ffff", reviewerID, ReviewInput{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.Approve(context.Background(), "nope", reviewerID, ReviewInput{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestFilterUsesIntervalOverlap(t *testing.T) {
	pred, err := Filter{FromDate: "2024-06-01", ToDate: "2024-06-30"}.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "WHERE lv.to_date >= $1 AND lv.from_date <= $2", pred.Where())
	assert.Equal(t, time.Date(2024, 6, 30, 23, 59, 59, int(999*time.Millisecond), time.UTC), pred.Args[1])

	_, err = Filter{Status: "cancelled"}.Predicate()
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
