package models

import (
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/Temutjin2k/safebike-web/pkg/validator"
)

// Filters carries the page and sort options of the admin list screens.
// The backend returns whole lists, so paging and sorting happen here.
type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

func NewFilters(page int, pageSize int, sort string, sortSafelist []string) (Filters, error) {
	if len(sortSafelist) == 0 {
		return Filters{}, errors.New("length of sortSafeList must be greater than 0")
	}
	return Filters{
		Page:         page,
		PageSize:     pageSize,
		Sort:         sort,
		SortSafelist: sortSafelist,
	}, nil
}

func (f Filters) Validate(v *validator.Validator) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
	v.Check(validator.PermittedValue(f.Sort, f.SortSafelist...), "sort", "invalid sort value")
}

// SortKey returns the safelisted sort key without its direction prefix.
func (f Filters) SortKey() string {
	if slices.Contains(f.SortSafelist, f.Sort) {
		return strings.TrimPrefix(f.Sort, "-")
	}
	return strings.TrimPrefix(f.SortSafelist[0], "-")
}

// Descending reports whether the sort expression starts with "-".
func (f Filters) Descending() bool {
	return strings.HasPrefix(f.Sort, "-")
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	TotalRecords int `json:"total_records"`
}

// HasNext reports whether a page follows the current one.
func (m Metadata) HasNext() bool {
	return m.CurrentPage < m.LastPage
}

// HasPrev reports whether a page precedes the current one.
func (m Metadata) HasPrev() bool {
	return m.CurrentPage > m.FirstPage && m.FirstPage > 0
}

// CalculateMetadata computes pagination metadata; the last page rounds up,
// so 12 records with a page size of 5 give 3 pages.
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{
			CurrentPage: page,
			PageSize:    pageSize,
		}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}

// Paginate sorts items with less (reversed for descending filters) and cuts out the requested page.
func Paginate[T any](items []T, f Filters, less func(a, b T, key string) int) ([]T, Metadata) {
	sorted := slices.Clone(items)
	key := f.SortKey()
	slices.SortStableFunc(sorted, func(a, b T) int {
		c := less(a, b, key)
		if f.Descending() {
			return -c
		}
		return c
	})

	meta := CalculateMetadata(len(sorted), f.Page, f.PageSize)
	start := min(f.Offset(), len(sorted))
	end := min(start+f.Limit(), len(sorted))
	return sorted[start:end], meta
}
