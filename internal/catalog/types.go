package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the denormalized category reference carried on products.
type Category struct {
	ID           int    `json:"id"`
	CategoryName string `json:"categoryName"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	IsActive     bool   `json:"isActive"`
}

// SubCategory narrows a category; products may reference one.
type SubCategory struct {
	ID              int    `json:"id"`
	SubCategoryName string `json:"subCategoryName"`
	CategoryID      int    `json:"categoryId"`
	IsActive        bool   `json:"isActive"`
}

// Product is the catalog unit the engine filters over. The engine treats
// it as immutable; collections are replaced wholesale by a source.
type Product struct {
	ID              int             `json:"id"`
	ProductName     string          `json:"productName"`
	Description     string          `json:"description,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	UnitsInStock    int             `json:"unitInStock"`
	QuantityPerUnit string          `json:"quantityPerUnit,omitempty"`
	DiscountPercent int             `json:"discount,omitempty"`
	Category        *Category       `json:"category,omitempty"`
	SubCategory     *SubCategory    `json:"subCategory,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

var oneHundred = decimal.NewFromInt(100)

// DiscountedPrice applies the product's discount percent to its unit price.
// Presentation-only; cart totals use the undiscounted UnitPrice.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercent <= 0 {
		return p.UnitPrice
	}
	pct := p.DiscountPercent
	if pct > 100 {
		pct = 100
	}
	factor := oneHundred.Sub(decimal.NewFromInt(int64(pct))).Div(oneHundred)
	return p.UnitPrice.Mul(factor)
}

// InStock reports whether any units remain.
func (p Product) InStock() bool {
	return p.UnitsInStock > 0
}

// CategoryID returns the product's category id, or 0 when uncategorized.
func (p Product) CategoryID() int {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}
