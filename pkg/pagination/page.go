package pagination

// Page size bounds for paginated listings. Requests outside the range are
// rejected at the boundary; zero means "use the default".
const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Page is the envelope for one page of a keyset-paginated listing. NextPage
// is set iff rows exist after this page, PreviousPage iff rows exist before
// it. CurrentPage echoes the token this page was fetched with ("" for the
// start of the sequence).
type Page[T any] struct {
	Data         []T     `json:"data"`
	CurrentPage  string  `json:"currentPage"`
	NextPage     *string `json:"nextPage"`
	PreviousPage *string `json:"previousPage"`
	Total        int     `json:"total"`
}

// ClampSize normalizes a requested page size into the allowed range.
func ClampSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Map converts the items of a page while keeping its cursors, for turning
// entities into their read representations.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{
		Data:         make([]U, 0, len(p.Data)),
		CurrentPage:  p.CurrentPage,
		NextPage:     p.NextPage,
		PreviousPage: p.PreviousPage,
		Total:        p.Total,
	}
	for _, item := range p.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
