package query

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit far from integer overflow.
	MaxPage = 1_000_000
)

type Page struct {
	Page  int
	Limit int
}

// ParsePage never fails: missing, non-numeric or non-positive values fall
// back to the defaults, and oversized values are clamped to MaxPage and
// MaxLimit.
func ParsePage(pageRaw, limitRaw string) Page {
	return Page{
		Page:  min(positiveOr(pageRaw, DefaultPage), MaxPage),
		Limit: min(positiveOr(limitRaw, DefaultLimit), MaxLimit),
	}
}

func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

func (p Page) Meta(total, returned int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		PageSize:    returned,
	}
}

type Result[T any] struct {
	Records []T `json:"records"`
	Meta
}

func NewResult[T any](page Page, records []T, total int) Result[T] {
	if records == nil {
		records = []T{}
	}
	return Result[T]{Records: records, Meta: page.Meta(total, len(records))}
}

func positiveOr(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
