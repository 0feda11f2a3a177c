package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/apperr"
)

func TestRequireID(t *testing.T) {
	id, err := RequireID("labourerId", " 64B7F0C2A1B2C3D4E5F60718 ")
	require.NoError(t, err)
	assert.Equal(t, validID, id)

	_, err = RequireID("labourerId", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = RequireID("labourerId", "64b7f0c2a1b2c3d4e5f6071z")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidIdentifier, appErr.Code)

	empty, err := OptionalID("projectId", "")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestRequireEnum(t *testing.T) {
	v, err := RequireEnum("status", "Half-Day", []string{"present", "absent", "half-day"})
	require.NoError(t, err)
	assert.Equal(t, "half-day", v)

	_, err = RequireEnum("status", "late", []string{"present"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestRequireDay(t *testing.T) {
	d, err := RequireDay("date", "2024-06-01T18:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = RequireDay("date", "June 1st")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInvalidDate, appErr.Code)

	none, err := OptionalDay("date", " ")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRequireText(t *testing.T) {
	v, err := RequireText("reason", "  sick  ", 1, 500)
	require.NoError(t, err)
	assert.Equal(t, "sick", v)

	_, err = RequireText("reason", "", 1, 500)
	assert.Error(t, err)

	_, err = RequireText("reason", strings.Repeat("x", 501), 1, 500)
	assert.Error(t, err)
}
