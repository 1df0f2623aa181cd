package models

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListQuery is the common search and pagination input of list views.
type ListQuery struct {
	Search  string
	Page    int
	PerPage int
}

// Normalize clamps Page and PerPage into their accepted ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

// Offset is the number of rows skipped before the requested page.
func (q ListQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.PerPage
}

// Page is one page of a list view.
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

// LastPage is the number of the final page, at least 1.
func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}
