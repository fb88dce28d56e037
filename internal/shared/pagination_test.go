package shared

import "testing"

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}
	if p.Page != 2 || p.PerPage != 20 || p.Total != 45 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 5)
	if p.Page != 1 || p.PerPage != 20 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.TotalPages != 1 {
		t.Fatalf("expected 1 page, got %d", p.TotalPages)
	}
}
