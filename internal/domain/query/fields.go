package query

import (
	"strings"
	"time"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/platform/objectid"
)

// RequireID validates a mandatory identifier and returns it normalized.
func RequireID(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperr.Validation(field, "is required")
	}
	if !objectid.Valid(value) {
		return "", apperr.InvalidIdentifier(field)
	}
	return objectid.Normalize(value), nil
}

// OptionalID is RequireID that accepts empty input as "".
func OptionalID(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return RequireID(field, raw)
}

func RequireEnum(field, raw string, allowed []string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", apperr.Validation(field, "is required")
	}
	if !Member(value, allowed) {
		return "", apperr.InvalidEnum(field, allowed)
	}
	return value, nil
}

// RequireDay parses a mandatory date and pins it to its calendar day.
func RequireDay(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, apperr.Validation(field, "is required")
	}
	t, _, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, apperr.InvalidDate(field)
	}
	return CalendarDay(t), nil
}

func OptionalDay(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	day, err := RequireDay(field, raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// RequireText trims value and checks its length in runes.
func RequireText(field, raw string, minLen, maxLen int) (string, error) {
	value := strings.TrimSpace(raw)
	n := len([]rune(value))
	if n == 0 && minLen > 0 {
		return "", apperr.Validation(field, "is required")
	}
	if n < minLen || (maxLen > 0 && n > maxLen) {
		return "", apperr.Validationf(field, "must be between %d and %d characters", minLen, maxLen)
	}
	return value, nil
}
