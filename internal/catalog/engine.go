package catalog

import (
	"sort"
	"strings"
	"sync"
)

// Engine holds the in-memory product collection and the active FilterSpec,
// and recomputes the current view on every read. Nothing is cached, so no
// invalidation is needed; collection sizes make recomputation cheap.
type Engine struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
	spec       FilterSpec
}

func NewEngine() *Engine {
	return &Engine{products: []Product{}, categories: []Category{}}
}

// SetProducts replaces the working collection wholesale. A nil slice is
// treated as an empty collection, matching how malformed source payloads
// are absorbed rather than surfaced.
func (e *Engine) SetProducts(products []Product) {
	copied := make([]Product, len(products))
	copy(copied, products)

	e.mu.Lock()
	e.products = copied
	e.mu.Unlock()
}

// SetCategories replaces the category collection wholesale.
func (e *Engine) SetCategories(categories []Category) {
	copied := make([]Category, len(categories))
	copy(copied, categories)

	e.mu.Lock()
	e.categories = copied
	e.mu.Unlock()
}

// SetFilterSpec replaces the active spec wholesale.
func (e *Engine) SetFilterSpec(spec FilterSpec) {
	e.mu.Lock()
	e.spec = spec
	e.mu.Unlock()
}

// FilterSpec returns the active spec.
func (e *Engine) FilterSpec() FilterSpec {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.spec
}

// Products returns a copy of the full collection.
func (e *Engine) Products() []Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Product, len(e.products))
	copy(out, e.products)
	return out
}

// Categories returns a copy of the category collection.
func (e *Engine) Categories() []Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Category, len(e.categories))
	copy(out, e.categories)
	return out
}

// ProductByID looks up a single product in the working collection.
func (e *Engine) ProductByID(id int) (Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FilteredProducts evaluates the active FilterSpec against the collection.
func (e *Engine) FilteredProducts() []Product {
	return e.Query(e.FilterSpec())
}

// Query evaluates an explicit spec against the collection, leaving the
// stored FilterSpec untouched. Predicates apply as a conjunction; each is
// inactive when its field is absent. Sorting applies after filtering when
// SortBy is set.
func (e *Engine) Query(spec FilterSpec) []Product {
	e.mu.RLock()
	products := e.products
	e.mu.RUnlock()

	filtered := make([]Product, 0, len(products))
	term := strings.ToLower(spec.SearchTerm)
	for _, p := range products {
		if spec.CategoryID != nil && p.CategoryID() != *spec.CategoryID {
			continue
		}
		if spec.SubCategoryID != nil && (p.SubCategory == nil || p.SubCategory.ID != *spec.SubCategoryID) {
			continue
		}
		if spec.MinPrice != nil && p.UnitPrice.LessThan(*spec.MinPrice) {
			continue
		}
		if spec.MaxPrice != nil && p.UnitPrice.GreaterThan(*spec.MaxPrice) {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, spec.SortBy, spec.SortOrder)
	return filtered
}

// ProductsByCategory applies only the category predicate, independent of
// the active FilterSpec. Used by category landing pages.
func (e *Engine) ProductsByCategory(categoryID int) []Product {
	e.mu.RLock()
	products := e.products
	e.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range products {
		if p.CategoryID() == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts applies only the search predicate, independent of the
// active FilterSpec.
func (e *Engine) SearchProducts(term string) []Product {
	e.mu.RLock()
	products := e.products
	e.mu.RUnlock()

	lowered := strings.ToLower(term)
	out := make([]Product, 0)
	for _, p := range products {
		if matchesTerm(p, lowered) {
			out = append(out, p)
		}
	}
	return out
}

// matchesTerm reports whether the lowered term is a substring of the
// product name, description, or category name.
func matchesTerm(p Product, lowered string) bool {
	if strings.Contains(strings.ToLower(p.ProductName), lowered) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), lowered) {
		return true
	}
	if p.Category != nil && strings.Contains(strings.ToLower(p.Category.CategoryName), lowered) {
		return true
	}
	return false
}

func sortProducts(products []Product, field SortField, order SortOrder) {
	var less func(a, b Product) bool
	switch field {
	case SortByName:
		less = func(a, b Product) bool { return a.ProductName < b.ProductName }
	case SortByPrice:
		less = func(a, b Product) bool { return a.UnitPrice.LessThan(b.UnitPrice) }
	case SortByCreatedAt:
		less = func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	// desc reverses the ascending comparator rather than defining its own.
	sort.SliceStable(products, func(i, j int) bool {
		if order == SortDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}
