package shared

// AllRows is the pageSize sentinel meaning "return every row, no pagination".
const AllRows = -1

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Page describes the requested slice of a result set.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes page and pageSize, applying the defaults page=1, pageSize=10.
// A pageSize of AllRows is preserved.
func NewPage(page, pageSize int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize == 0 || pageSize < AllRows {
		pageSize = DefaultPageSize
	}
	return Page{Number: page, Size: pageSize}
}

// All reports whether pagination is disabled.
func (p Page) All() bool {
	return p.Size == AllRows
}

// Limit returns the row limit, or AllRows when pagination is disabled.
func (p Page) Limit() int {
	if p.All() {
		return AllRows
	}
	return p.Size
}

// Offset returns (page-1)*pageSize.
func (p Page) Offset() int {
	if p.All() {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages computes the number of pages for count rows.
func (p Page) TotalPages(count int64) int {
	if p.All() {
		if count == 0 {
			return 0
		}
		return 1
	}
	totalPages := int(count) / p.Size
	if int(count)%p.Size > 0 {
		totalPages++
	}
	return totalPages
}

// Unpaginated is the page used to fetch complete result sets.
func Unpaginated() Page {
	return Page{Number: DefaultPage, Size: AllRows}
}
