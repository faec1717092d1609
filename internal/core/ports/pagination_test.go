package ports

import "testing"

func TestPagination_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"zero values get defaults", Pagination{}, Pagination{Page: 1, PageSize: 10}},
		{"negative page clamped", Pagination{Page: -3, PageSize: 20}, Pagination{Page: 1, PageSize: 20}},
		{"oversized page size clamped", Pagination{Page: 2, PageSize: 500}, Pagination{Page: 2, PageSize: 100}},
		{"valid values untouched", Pagination{Page: 4, PageSize: 25}, Pagination{Page: 4, PageSize: 25}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewPage_TotalPages(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		size  int
		want  int
	}{
		{"exact multiple", 30, 10, 3},
		{"partial last page", 31, 10, 4},
		{"empty", 0, 10, 0},
		{"single item", 1, 10, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage([]int{}, tc.total, Pagination{Page: 1, PageSize: tc.size})
			if page.TotalPages != tc.want {
				t.Fatalf("got %d total pages, want %d", page.TotalPages, tc.want)
			}
			if page.TotalCount != tc.total {
				t.Fatalf("got %d total count, want %d", page.TotalCount, tc.total)
			}
		})
	}
}
