package catalog

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var (
	electronics = Category{ID: 1, CategoryName: "Electronics", IsActive: true}
	fashion     = Category{ID: 2, CategoryName: "Fashion", IsActive: true}
)

func testProducts() []Product {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{
			ID:           1,
			ProductName:  "Wireless Headphones",
			Description:  "Noise cancelling over-ear headphones",
			UnitPrice:    decimal.NewFromInt(50),
			UnitsInStock: 12,
			Category:     &electronics,
			SubCategory:  &SubCategory{ID: 10, SubCategoryName: "Audio", CategoryID: 1, IsActive: true},
			CreatedAt:    base,
		},
		{
			ID:           2,
			ProductName:  "Mechanical Keyboard",
			Description:  "Hot-swappable switches",
			UnitPrice:    decimal.NewFromInt(150),
			UnitsInStock: 4,
			Category:     &electronics,
			SubCategory:  &SubCategory{ID: 11, SubCategoryName: "Peripherals", CategoryID: 1, IsActive: true},
			CreatedAt:    base.Add(24 * time.Hour),
		},
		{
			ID:           3,
			ProductName:  "Leather Jacket",
			Description:  "Classic biker cut",
			UnitPrice:    decimal.NewFromInt(150),
			UnitsInStock: 0,
			Category:     &fashion,
			CreatedAt:    base.Add(48 * time.Hour),
		},
	}
}

func newTestEngine() *Engine {
	e := NewEngine()
	e.SetProducts(testProducts())
	return e
}

func ids(products []Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilteredProductsConjunction(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{CategoryID: intPtr(1), MinPrice: decPtr(100)})

	got := ids(e.FilteredProducts())
	if !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestRemovingConstraintNeverShrinksResult(t *testing.T) {
	e := newTestEngine()

	e.SetFilterSpec(FilterSpec{CategoryID: intPtr(1), MinPrice: decPtr(100)})
	constrained := len(e.FilteredProducts())

	e.SetFilterSpec(FilterSpec{CategoryID: intPtr(1)})
	relaxed := len(e.FilteredProducts())

	if relaxed < constrained {
		t.Fatalf("relaxing a filter shrank the result: %d -> %d", constrained, relaxed)
	}
}

func TestFilteredProductsIsPure(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{SearchTerm: "headphones", SortBy: SortByPrice})

	first := e.FilteredProducts()
	second := e.FilteredProducts()
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated reads with unchanged state should be equal")
	}
}

func TestPriceBoundsInclusive(t *testing.T) {
	e := newTestEngine()

	e.SetFilterSpec(FilterSpec{MinPrice: decPtr(150)})
	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("min bound should be inclusive, got %v", got)
	}

	e.SetFilterSpec(FilterSpec{MaxPrice: decPtr(50)})
	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("max bound should be inclusive, got %v", got)
	}
}

func TestSearchTermCaseInsensitiveSubstring(t *testing.T) {
	e := newTestEngine()

	for _, term := range []string{"wireless", "HEAD", "phones"} {
		got := e.SearchProducts(term)
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("term %q should match product 1, got %v", term, ids(got))
		}
	}

	// category name participates in matching
	if got := e.SearchProducts("fashion"); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("category name should match, got %v", ids(got))
	}
}

func TestSubCategoryFilter(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{SubCategoryID: intPtr(11)})

	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected [2], got %v", got)
	}

	// products without a subcategory never match an active subcategory filter
	e.SetFilterSpec(FilterSpec{SubCategoryID: intPtr(99)})
	if got := e.FilteredProducts(); len(got) != 0 {
		t.Fatalf("expected empty, got %v", ids(got))
	}
}

func TestSortOrders(t *testing.T) {
	e := newTestEngine()

	e.SetFilterSpec(FilterSpec{SortBy: SortByPrice})
	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("price asc: got %v", got)
	}

	e.SetFilterSpec(FilterSpec{SortBy: SortByPrice, SortOrder: SortDesc})
	got := ids(e.FilteredProducts())
	if got[len(got)-1] != 1 {
		t.Fatalf("price desc should end with cheapest, got %v", got)
	}

	e.SetFilterSpec(FilterSpec{SortBy: SortByName})
	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Fatalf("name asc: got %v", got)
	}

	e.SetFilterSpec(FilterSpec{SortBy: SortByCreatedAt, SortOrder: SortDesc})
	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Fatalf("createdAt desc: got %v", got)
	}
}

func TestUnknownSortFieldLeavesOrder(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{SortBy: SortField("rating")})

	if got := ids(e.FilteredProducts()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("unknown sort should preserve collection order, got %v", got)
	}
}

func TestSetProductsNilBecomesEmpty(t *testing.T) {
	e := newTestEngine()
	e.SetProducts(nil)

	if got := e.FilteredProducts(); got == nil || len(got) != 0 {
		t.Fatalf("nil products should read as empty, got %v", got)
	}
	if got := e.Products(); got == nil || len(got) != 0 {
		t.Fatalf("nil products should read as empty, got %v", got)
	}
}

func TestProductsByCategoryIgnoresFilterSpec(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{MinPrice: decPtr(1000)}) // matches nothing

	if got := ids(e.ProductsByCategory(1)); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("category read should bypass filter spec, got %v", got)
	}
}

func TestProductByID(t *testing.T) {
	e := newTestEngine()

	p, ok := e.ProductByID(3)
	if !ok || p.ProductName != "Leather Jacket" {
		t.Fatalf("lookup failed: %v %v", p, ok)
	}
	if _, ok := e.ProductByID(404); ok {
		t.Fatal("missing id should not be found")
	}
}

func TestQueryLeavesStoredSpecUntouched(t *testing.T) {
	e := newTestEngine()
	e.SetFilterSpec(FilterSpec{CategoryID: intPtr(2)})

	got := ids(e.Query(FilterSpec{CategoryID: intPtr(1)}))
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("explicit spec not applied, got %v", got)
	}

	if spec := e.FilterSpec(); spec.CategoryID == nil || *spec.CategoryID != 2 {
		t.Fatalf("stored spec should be unchanged, got %+v", spec)
	}
}

func TestDiscountedPrice(t *testing.T) {
	p := Product{UnitPrice: decimal.NewFromInt(200), DiscountPercent: 25}
	if got := p.DiscountedPrice(); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", got)
	}

	p.DiscountPercent = 0
	if got := p.DiscountedPrice(); !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("no discount should return unit price, got %s", got)
	}

	p.DiscountPercent = 140
	if got := p.DiscountedPrice(); !got.Equal(decimal.Zero) {
		t.Fatalf("discount above 100 clamps to free, got %s", got)
	}
}
