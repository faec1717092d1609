package ports

// Pagination is the shared paging contract: page number >= 1 (default 1),
// page size 1-100 (default 10).
type Pagination struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Normalize clamps the pagination parameters into the allowed ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Page is one page of results plus the counters the API contract requires.
type Page[T any] struct {
	Items       []T
	TotalCount  int64
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// NewPage assembles a Page from items and a total count.
func NewPage[T any](items []T, total int64, p Pagination) *Page[T] {
	totalPages := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		totalPages++
	}
	return &Page[T]{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
	}
}
