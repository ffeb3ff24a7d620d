package source

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ecomsuite/storefront/internal/catalog"
)

//go:embed fixtures/products.json
var mockProductsJSON []byte

//go:embed fixtures/categories.json
var mockCategoriesJSON []byte

// Mock serves the embedded demo dataset, the default backend for local
// development and demos.
type Mock struct {
	snapshot Snapshot
}

// NewMock decodes the embedded fixtures once.
func NewMock() (*Mock, error) {
	var products []catalog.Product
	if err := json.Unmarshal(mockProductsJSON, &products); err != nil {
		return nil, fmt.Errorf("decoding mock products: %w", err)
	}
	var categories []catalog.Category
	if err := json.Unmarshal(mockCategoriesJSON, &categories); err != nil {
		return nil, fmt.Errorf("decoding mock categories: %w", err)
	}
	return &Mock{snapshot: Snapshot{Products: products, Categories: categories}}, nil
}

// Fetch returns the embedded dataset.
func (m *Mock) Fetch(_ context.Context) (*Snapshot, error) {
	out := Snapshot{
		Products:   append([]catalog.Product{}, m.snapshot.Products...),
		Categories: append([]catalog.Category{}, m.snapshot.Categories...),
	}
	return &out, nil
}
