package models

import (
	"cmp"
	"testing"

	"github.com/Temutjin2k/safebike-web/pkg/validator"
)

func TestCalculateMetadata(t *testing.T) {
	m := CalculateMetadata(12, 2, 5)
	if m.LastPage != 3 || m.FirstPage != 1 || m.TotalRecords != 12 {
		t.Fatalf("unexpected metadata %+v", m)
	}
	if !m.HasNext() || !m.HasPrev() {
		t.Fatalf("page 2 of 3 must have both neighbours")
	}

	empty := CalculateMetadata(0, 1, 5)
	if empty.LastPage != 0 || empty.HasNext() || empty.HasPrev() {
		t.Fatalf("unexpected empty metadata %+v", empty)
	}
}

func TestFilters_Validate(t *testing.T) {
	f, err := NewFilters(0, 500, "name", []string{"email"})
	if err != nil {
		t.Fatal(err)
	}

	v := validator.New()
	f.Validate(v)
	for _, key := range []string{"page", "page_size", "sort"} {
		if _, ok := v.Errors[key]; !ok {
			t.Errorf("expected error for %s", key)
		}
	}

	if _, err := NewFilters(1, 1, "x", nil); err == nil {
		t.Fatal("expected error for empty safelist")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	f, _ := NewFilters(2, 2, "-value", []string{"value", "-value"})

	page, meta := Paginate(items, f, func(a, b int, _ string) int { return cmp.Compare(a, b) })
	if len(page) != 2 || page[0] != 3 || page[1] != 2 {
		t.Fatalf("unexpected page %v", page)
	}
	if meta.LastPage != 3 {
		t.Fatalf("unexpected last page %d", meta.LastPage)
	}
	if items[0] != 5 {
		t.Fatal("input slice must not be reordered")
	}

	f.Page = 9
	page, _ = Paginate(items, f, func(a, b int, _ string) int { return cmp.Compare(a, b) })
	if len(page) != 0 {
		t.Fatalf("out of range page must be empty, got %v", page)
	}
}
