package pagination

const (
	// DefaultPageSize matches the storefront's product grid.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows a single page can request.
	MaxPageSize = 100
)

// Page holds normalized page-number pagination inputs.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page number and size to safe values.
func Normalize(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the zero-based slice offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns the page count for the given total row count.
func (p Page) TotalPages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + p.Size - 1) / p.Size
}

// Window slices items down to the requested page. Out-of-range pages
// yield an empty slice rather than an error.
func Window[T any](items []T, p Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
