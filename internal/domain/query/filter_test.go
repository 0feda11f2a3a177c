package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
)

const validID = "64b7f0c2a1b2c3d4e5f60718"

func TestBuilderSkipsEmptyCriteria(t *testing.T) {
	pred, err := NewBuilder().
		ID("labourer_id", "labourerId", "").
		Enum("status", "status", "  ", []string{"present"}).
		Contains("", "name").
		On("date", "date", "").
		Overlap("from_date", "to_date", "fromDate", "", "toDate", "").
		Build()
	require.NoError(t, err)
	assert.Empty(t, pred.Clauses)
	assert.Empty(t, pred.Args)
	assert.Equal(t, "", pred.Where())
}

func TestBuilderNumbersPlaceholdersInOrder(t *testing.T) {
	pred, err := NewBuilder().
		ID("a.labourer_id", "labourerId", validID).
		Enum("a.status", "status", "Present", []string{"present", "absent", "half-day"}).
		Contains("bob", "l.name", "l.phone").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "WHERE a.labourer_id = $1 AND a.status = $2 AND (l.name ILIKE $3 OR l.phone ILIKE $3)", pred.Where())
	assert.Equal(t, []any{validID, "present", "%bob%"}, pred.Args)

	limit, args := pred.Limit(Page{Page: 3, Limit: 10})
	assert.Equal(t, "LIMIT $4 OFFSET $5", limit)
	assert.Equal(t, []any{validID, "present", "%bob%", 10, 20}, args)
}

func TestBuilderRejectsInvalidIdentifier(t *testing.T) {
	_, err := NewBuilder().ID("labourer_id", "labourerId", "not-an-id").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidIdentifier, appErr.Code)
	assert.Equal(t, "labourerId", appErr.Field)
}

func TestBuilderRejectsUnknownEnumNamingAllowedValues(t *testing.T) {
	allowed := []string{"morning", "evening", "night"}
	_, err := NewBuilder().Enum("shift", "shift", "afternoon", allowed).Build()
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidEnum, appErr.Code)
	assert.Equal(t, allowed, appErr.Details["allowed"])
	assert.Contains(t, appErr.Message, "morning, evening, night")
}

func TestBuilderStopsAtFirstViolation(t *testing.T) {
	_, err := NewBuilder().
		Enum("status", "status", "bogus", []string{"pending"}).
		ID("labourer_id", "labourerId", "bad").
		On("date", "date", "yesterday").
		Build()
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "status", appErr.Field)
}

func TestBuilderRejectsInvalidDate(t *testing.T) {
	_, err := NewBuilder().On("date", "date", "2024-13-45").Build()
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidDate, appErr.Code)

	_, err = NewBuilder().Within("date", "startDate", "2024-01-01", "endDate", "garbage").Build()
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "endDate", appErr.Field)
}

func TestBuilderRejectsInvertedRange(t *testing.T) {
	_, err := NewBuilder().Overlap("from_date", "to_date", "fromDate", "2024-02-10", "toDate", "2024-02-01").Build()
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidDateRange, appErr.Code)
}

func TestBuilderSingleDateExpandsToWholeDay(t *testing.T) {
	pred, err := NewBuilder().On("date", "date", "2024-03-05").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"date >= $1", "date <= $2"}, pred.Clauses)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), pred.Args[0])
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999000000, time.UTC), pred.Args[1])
}

func TestBuilderOverlapUsesOppositeColumns(t *testing.T) {
	pred, err := NewBuilder().Overlap("start_period", "end_period", "startPeriod", "2024-01-10", "endPeriod", "2024-01-20").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"end_period >= $1", "start_period <= $2"}, pred.Clauses)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), pred.Args[0])
	assert.Equal(t, EndOfDay(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)), pred.Args[1])
}

func TestBuilderOverlapEachBoundIndependent(t *testing.T) {
	pred, err := NewBuilder().Overlap("from_date", "to_date", "fromDate", "", "toDate", "2024-01-20T12:00:00Z").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"from_date <= $1"}, pred.Clauses)
	assert.Equal(t, time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC), pred.Args[0].(time.Time).UTC())
}

// overlaps mirrors the SQL produced by Overlap so the interval semantics can
// be checked without a database.
func overlaps(recStart, recEnd, from, to time.Time) bool {
	return !recEnd.Before(from) && !recStart.After(to)
}

func TestOverlapSemantics(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	from, to := day(10), EndOfDay(day(20))

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"entirely before", day(1), day(9), false},
		{"entirely after", day(21), day(25), false},
		{"touches start", day(5), day(10), true},
		{"touches end", day(20), day(28), true},
		{"contains window", day(1), day(31), true},
		{"inside window", day(12), day(14), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlaps(tc.start, tc.end, from, to))
		})
	}
}

func TestContainsEscapesWildcards(t *testing.T) {
	pred, err := NewBuilder().Contains(`50%_off\`, "name").Build()
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off\\%`, pred.Args[0])
}

func TestNumberRejectsGarbage(t *testing.T) {
	_, err := NewBuilder().Number("score", ">=", "minScore", "lots").Build()
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	pred, err := NewBuilder().Number("score", ">=", "minScore", "42.5").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"score >= $1"}, pred.Clauses)
	assert.Equal(t, 42.5, pred.Args[0])
}

func TestEqAndRawAlwaysApply(t *testing.T) {
	pred, err := NewBuilder().Raw("lifecycle = 'active'").Eq("user_id", validID).Build()
	require.NoError(t, err)
	assert.Equal(t, "WHERE lifecycle = 'active' AND user_id = $1", pred.Where())
}
