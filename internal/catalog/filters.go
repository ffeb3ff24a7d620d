package catalog

import "github.com/shopspring/decimal"

// SortField selects the comparator key for filtered results.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder selects ascending or descending traversal.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterSpec describes which products the current view should show and how
// they should be ordered. Nil/zero fields mean "filter inactive". Callers
// replace the whole spec rather than patching fields.
type FilterSpec struct {
	CategoryID    *int             `json:"categoryId,omitempty"`
	SubCategoryID *int             `json:"subCategoryId,omitempty"`
	MinPrice      *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice      *decimal.Decimal `json:"maxPrice,omitempty"`
	SearchTerm    string           `json:"searchTerm,omitempty"`
	SortBy        SortField        `json:"sortBy,omitempty"`
	SortOrder     SortOrder        `json:"sortOrder,omitempty"`

	// Pagination is consumed by the HTTP layer; the engine always
	// evaluates the full matching set.
	PageNumber int `json:"pageNumber,omitempty"`
	PageSize   int `json:"pageSize,omitempty"`
}

// ValidSortField reports whether the value names a supported sort key.
func ValidSortField(value string) bool {
	switch SortField(value) {
	case SortByName, SortByPrice, SortByCreatedAt:
		return true
	}
	return false
}
