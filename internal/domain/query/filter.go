package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/platform/objectid"
)

// Predicate is a validated WHERE clause with positional arguments.
type Predicate struct {
	Clauses []string
	Args    []any
}

func (p Predicate) Where() string {
	if len(p.Clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Clauses, " AND ")
}

// Limit renders LIMIT/OFFSET placeholders that follow the predicate's own
// arguments and returns the full argument list.
func (p Predicate) Limit(page Page) (string, []any) {
	args := make([]any, 0, len(p.Args)+2)
	args = append(args, p.Args...)
	args = append(args, page.Limit, page.Skip())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(p.Args)+1, len(p.Args)+2), args
}

// Builder assembles a Predicate from optional request criteria. Each method
// skips empty input, validates what is present, and stops at the first
// violation; Build reports it.
type Builder struct {
	clauses []string
	args    []any
	err     error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// cond appends a clause; every %s in format becomes the next placeholder.
func (b *Builder) cond(format string, args ...any) {
	placeholders := make([]any, len(args))
	for i, arg := range args {
		b.args = append(b.args, arg)
		placeholders[i] = "$" + strconv.Itoa(len(b.args))
	}
	b.clauses = append(b.clauses, fmt.Sprintf(format, placeholders...))
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Eq always applies an equality condition. Use it for scoping that does not
// come from user input.
func (b *Builder) Eq(column string, value any) *Builder {
	if b.err != nil {
		return b
	}
	b.cond(column+" = %s", value)
	return b
}

// Raw appends a literal clause with no arguments.
func (b *Builder) Raw(clause string) *Builder {
	if b.err != nil {
		return b
	}
	b.clauses = append(b.clauses, clause)
	return b
}

func (b *Builder) ID(column, field, raw string) *Builder {
	value := strings.TrimSpace(raw)
	if b.err != nil || value == "" {
		return b
	}
	if !objectid.Valid(value) {
		b.fail(apperr.InvalidIdentifier(field))
		return b
	}
	b.cond(column+" = %s", objectid.Normalize(value))
	return b
}

func (b *Builder) Enum(column, field, raw string, allowed []string) *Builder {
	value := strings.ToLower(strings.TrimSpace(raw))
	if b.err != nil || value == "" {
		return b
	}
	if !Member(value, allowed) {
		b.fail(apperr.InvalidEnum(field, allowed))
		return b
	}
	b.cond(column+" = %s", value)
	return b
}

// Contains is a case-insensitive substring match across one or more columns.
func (b *Builder) Contains(raw string, columns ...string) *Builder {
	value := strings.TrimSpace(raw)
	if b.err != nil || value == "" || len(columns) == 0 {
		return b
	}
	b.args = append(b.args, "%"+escapeLike(value)+"%")
	placeholder := "$" + strconv.Itoa(len(b.args))
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = column + " ILIKE " + placeholder
	}
	if len(parts) == 1 {
		b.clauses = append(b.clauses, parts[0])
	} else {
		b.clauses = append(b.clauses, "("+strings.Join(parts, " OR ")+")")
	}
	return b
}

// On matches a timestamp column against the whole calendar day of raw.
func (b *Builder) On(column, field, raw string) *Builder {
	if b.err != nil || strings.TrimSpace(raw) == "" {
		return b
	}
	day, _, err := ParseDate(raw)
	if err != nil {
		b.fail(apperr.InvalidDate(field))
		return b
	}
	b.cond(column+" >= %s", StartOfDay(day))
	b.cond(column+" <= %s", EndOfDay(day))
	return b
}

// Within matches a single timestamp column against an inclusive window.
// Either bound may be omitted.
func (b *Builder) Within(column, fromField, fromRaw, toField, toRaw string) *Builder {
	return b.Overlap(column, column, fromField, fromRaw, toField, toRaw)
}

// Overlap matches records whose [startColumn, endColumn] interval intersects
// the requested window: end >= from AND start <= to, each bound optional.
func (b *Builder) Overlap(startColumn, endColumn, fromField, fromRaw, toField, toRaw string) *Builder {
	if b.err != nil {
		return b
	}
	from, hasFrom, err := parseBound(fromRaw, false)
	if err != nil {
		b.fail(apperr.InvalidDate(fromField))
		return b
	}
	to, hasTo, err := parseBound(toRaw, true)
	if err != nil {
		b.fail(apperr.InvalidDate(toField))
		return b
	}
	if hasFrom && hasTo && from.After(to) {
		b.fail(apperr.InvalidDateRange(fromField, toField))
		return b
	}
	if hasFrom {
		b.cond(endColumn+" >= %s", from)
	}
	if hasTo {
		b.cond(startColumn+" <= %s", to)
	}
	return b
}

// Number applies column <op> value for a numeric query parameter.
func (b *Builder) Number(column, op, field, raw string) *Builder {
	value := strings.TrimSpace(raw)
	if b.err != nil || value == "" {
		return b
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		b.fail(apperr.Validation(field, "must be a number"))
		return b
	}
	switch op {
	case "=", ">=", "<=", ">", "<":
	default:
		panic("query: unsupported operator " + op)
	}
	b.cond(column+" "+op+" %s", parsed)
	return b
}

func (b *Builder) Build() (Predicate, error) {
	if b.err != nil {
		return Predicate{}, b.err
	}
	return Predicate{Clauses: b.clauses, Args: b.args}, nil
}

func parseBound(raw string, upper bool) (time.Time, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false, nil
	}
	t, dateOnly, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	if upper && dateOnly {
		t = EndOfDay(t)
	}
	return t, true, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

// Member reports whether value is one of allowed.
func Member(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
