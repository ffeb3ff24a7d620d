package cart

import (
	"context"
	"sync"

	"github.com/ecomsuite/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Line is one (product, quantity) entry in the cart. The product is a
// snapshot taken at add time; it is never re-fetched or repriced.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Hooks let callers observe what the aggregate absorbs. Every field is
// optional; the aggregate never fails regardless of what hooks do.
type Hooks struct {
	// OnMutation fires after each applied mutation, keyed by operation
	// name (add_item, remove_item, update_quantity, clear).
	OnMutation func(operation string)
	// OnAnomaly fires when an input was sanitized instead of rejected:
	// non-positive quantities, adds beyond available stock, unknown ids.
	OnAnomaly func(operation, detail string)
	// OnPersistError fires when the best-effort snapshot write fails.
	// The mutation itself is never rolled back.
	OnPersistError func(err error)
}

// Cart is the authoritative set of items a visitor intends to purchase.
// Derived totals are recomputed synchronously on every mutation, so no
// caller-visible state ever shows totals stale relative to lines.
type Cart struct {
	key     string
	backend Backend
	hooks   Hooks

	mu             sync.Mutex
	lines          []Line
	totalItemCount int
	totalAmount    decimal.Decimal
}

// New builds a cart bound to the given storage key and hydrates it from
// the backend. A missing or unreadable snapshot yields an empty cart.
func New(ctx context.Context, key string, backend Backend, hooks Hooks) *Cart {
	c := &Cart{
		key:         key,
		backend:     backend,
		hooks:       hooks,
		lines:       []Line{},
		totalAmount: decimal.Zero,
	}

	if backend != nil {
		lines, err := backend.Load(ctx, key)
		if err != nil {
			c.anomaly("hydrate", "snapshot unreadable, starting empty")
		} else if lines != nil {
			c.lines = sanitizeLines(lines)
		}
	}
	c.recompute()
	return c
}

// sanitizeLines drops malformed snapshot entries so corruption degrades
// to a smaller cart, never a failure.
func sanitizeLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	seen := map[int]bool{}
	for _, line := range lines {
		if line.Quantity <= 0 || seen[line.Product.ID] {
			continue
		}
		seen[line.Product.ID] = true
		out = append(out, line)
	}
	return out
}

// AddItem increments the line for the product by quantity, creating the
// line if absent. Quantities are not clamped against stock; over-stock
// adds are applied and reported through OnAnomaly. An increment that
// lands at or below zero removes the line.
func (c *Cart) AddItem(ctx context.Context, product catalog.Product, quantity int) {
	c.mu.Lock()
	if quantity <= 0 {
		c.anomaly("add_item", "non-positive quantity")
	}

	idx := c.lineIndex(product.ID)
	switch {
	case idx >= 0:
		next := c.lines[idx].Quantity + quantity
		if next <= 0 {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		} else {
			c.lines[idx].Quantity = next
			if next > product.UnitsInStock {
				c.anomaly("add_item", "quantity exceeds available stock")
			}
		}
	case quantity > 0:
		c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
		if quantity > product.UnitsInStock {
			c.anomaly("add_item", "quantity exceeds available stock")
		}
	}

	c.recompute()
	c.mu.Unlock()

	c.mutated(ctx, "add_item")
}

// RemoveItem deletes the line for the product id; absent ids are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productID int) {
	c.mu.Lock()
	idx := c.lineIndex(productID)
	if idx >= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	} else {
		c.anomaly("remove_item", "product not in cart")
	}
	c.recompute()
	c.mu.Unlock()

	c.mutated(ctx, "remove_item")
}

// UpdateQuantity sets the line's quantity to exactly quantity. A value
// at or below zero behaves identically to RemoveItem.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(ctx, productID)
		return
	}

	c.mu.Lock()
	idx := c.lineIndex(productID)
	if idx >= 0 {
		c.lines[idx].Quantity = quantity
	} else {
		c.anomaly("update_quantity", "product not in cart")
	}
	c.recompute()
	c.mu.Unlock()

	c.mutated(ctx, "update_quantity")
}

// Clear empties all lines and resets both derived totals to zero.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = []Line{}
	c.recompute()
	c.mu.Unlock()

	c.mutated(ctx, "clear")
}

// ItemQuantity returns the line quantity for the product id, or 0.
func (c *Cart) ItemQuantity(productID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.lineIndex(productID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItemCount is the sum of all line quantities.
func (c *Cart) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItemCount
}

// TotalAmount is Σ(unitPrice × quantity) over the lines, on the
// undiscounted unit price.
func (c *Cart) TotalAmount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalAmount
}

// lineIndex must be called with the mutex held.
func (c *Cart) lineIndex(productID int) int {
	for i, line := range c.lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

// recompute must be called with the mutex held.
func (c *Cart) recompute() {
	count := 0
	amount := decimal.Zero
	for _, line := range c.lines {
		count += line.Quantity
		amount = amount.Add(line.Product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	c.totalItemCount = count
	c.totalAmount = amount
}

// mutated persists the snapshot and fires the mutation hook. Persistence
// is advisory; failures are reported, never propagated.
func (c *Cart) mutated(ctx context.Context, operation string) {
	if c.backend != nil {
		if err := c.backend.Save(ctx, c.key, c.Lines()); err != nil && c.hooks.OnPersistError != nil {
			c.hooks.OnPersistError(err)
		}
	}
	if c.hooks.OnMutation != nil {
		c.hooks.OnMutation(operation)
	}
}

func (c *Cart) anomaly(operation, detail string) {
	if c.hooks.OnAnomaly != nil {
		c.hooks.OnAnomaly(operation, detail)
	}
}
