package cart

import (
	"context"
	"testing"

	"github.com/ecomsuite/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

func product(id int, price int64, stock int) catalog.Product {
	return catalog.Product{
		ID:           id,
		ProductName:  "product",
		UnitPrice:    decimal.NewFromInt(price),
		UnitsInStock: stock,
	}
}

func newEmptyCart(t *testing.T) *Cart {
	t.Helper()
	return New(context.Background(), "session-1", NewMemoryBackend(), Hooks{})
}

// totalsConsistent asserts the recomputed-state invariant: derived totals
// always equal what the lines imply.
func totalsConsistent(t *testing.T, c *Cart) {
	t.Helper()
	count := 0
	amount := decimal.Zero
	for _, line := range c.Lines() {
		count += line.Quantity
		amount = amount.Add(line.Product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if c.TotalItemCount() != count {
		t.Fatalf("totalItemCount %d != sum of line quantities %d", c.TotalItemCount(), count)
	}
	if !c.TotalAmount().Equal(amount) {
		t.Fatalf("totalAmount %s != sum over lines %s", c.TotalAmount(), amount)
	}
}

func TestAddUpdateRemoveLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)

	c.AddItem(ctx, product(5, 200, 10), 2)
	if c.TotalItemCount() != 2 || !c.TotalAmount().Equal(decimal.NewFromInt(400)) {
		t.Fatalf("after add: count=%d amount=%s", c.TotalItemCount(), c.TotalAmount())
	}
	totalsConsistent(t, c)

	c.UpdateQuantity(ctx, 5, 1)
	if c.TotalItemCount() != 1 || !c.TotalAmount().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("after update: count=%d amount=%s", c.TotalItemCount(), c.TotalAmount())
	}
	totalsConsistent(t, c)

	c.RemoveItem(ctx, 5)
	if c.TotalItemCount() != 0 || !c.TotalAmount().Equal(decimal.Zero) {
		t.Fatalf("after remove: count=%d amount=%s", c.TotalItemCount(), c.TotalAmount())
	}
	if len(c.Lines()) != 0 {
		t.Fatalf("expected no lines, got %d", len(c.Lines()))
	}
}

func TestAddSameProductMergesLines(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)

	c.AddItem(ctx, product(1, 50, 100), 1)
	c.AddItem(ctx, product(1, 50, 100), 3)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", lines[0].Quantity)
	}
	totalsConsistent(t, c)
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()

	removed := newEmptyCart(t)
	removed.AddItem(ctx, product(1, 50, 10), 2)
	removed.RemoveItem(ctx, 1)

	updated := newEmptyCart(t)
	updated.AddItem(ctx, product(1, 50, 10), 2)
	updated.UpdateQuantity(ctx, 1, 0)

	if len(updated.Lines()) != len(removed.Lines()) {
		t.Fatal("update to zero should leave the same lines as remove")
	}
	if updated.TotalItemCount() != removed.TotalItemCount() {
		t.Fatal("update to zero should leave the same count as remove")
	}
	if !updated.TotalAmount().Equal(removed.TotalAmount()) {
		t.Fatal("update to zero should leave the same amount as remove")
	}
	if updated.ItemQuantity(1) != 0 {
		t.Fatal("item quantity should read zero after removal")
	}

	negative := newEmptyCart(t)
	negative.AddItem(ctx, product(1, 50, 10), 2)
	negative.UpdateQuantity(ctx, 1, -3)
	if len(negative.Lines()) != 0 {
		t.Fatal("negative quantity should remove the line")
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)
	c.AddItem(ctx, product(1, 50, 10), 1)

	c.RemoveItem(ctx, 999)
	if len(c.Lines()) != 1 || c.TotalItemCount() != 1 {
		t.Fatal("removing an absent product must not change state")
	}
}

func TestUpdateMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)
	c.AddItem(ctx, product(1, 50, 10), 1)

	c.UpdateQuantity(ctx, 999, 5)
	if c.TotalItemCount() != 1 {
		t.Fatal("updating an absent product must not change state")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)
	c.AddItem(ctx, product(1, 50, 10), 2)
	c.AddItem(ctx, product(2, 30, 10), 1)

	c.Clear(ctx)
	if c.TotalItemCount() != 0 || !c.TotalAmount().Equal(decimal.Zero) || len(c.Lines()) != 0 {
		t.Fatalf("clear should zero everything: count=%d amount=%s lines=%d",
			c.TotalItemCount(), c.TotalAmount(), len(c.Lines()))
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)
	c.AddItem(ctx, product(3, 10, 10), 1)
	c.AddItem(ctx, product(1, 10, 10), 1)
	c.AddItem(ctx, product(2, 10, 10), 1)
	c.AddItem(ctx, product(1, 10, 10), 1) // merge, must not reorder

	lines := c.Lines()
	got := []int{lines[0].Product.ID, lines[1].Product.ID, lines[2].Product.ID}
	want := []int{3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("insertion order lost: got %v want %v", got, want)
		}
	}
}

func TestTotalsUseUndiscountedPrice(t *testing.T) {
	ctx := context.Background()
	c := newEmptyCart(t)

	p := product(1, 200, 10)
	p.DiscountPercent = 50
	c.AddItem(ctx, p, 1)

	if !c.TotalAmount().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("totals must use unit price, got %s", c.TotalAmount())
	}
}

func TestOverStockAddAppliesAndReportsAnomaly(t *testing.T) {
	ctx := context.Background()
	var anomalies []string
	backend := NewMemoryBackend()
	c := New(ctx, "s", backend, Hooks{
		OnAnomaly: func(op, detail string) { anomalies = append(anomalies, op+": "+detail) },
	})

	c.AddItem(ctx, product(1, 50, 2), 5)

	if c.ItemQuantity(1) != 5 {
		t.Fatalf("over-stock add should still apply, got quantity %d", c.ItemQuantity(1))
	}
	if len(anomalies) == 0 {
		t.Fatal("over-stock add should report an anomaly")
	}
}

func TestMutationHookFires(t *testing.T) {
	ctx := context.Background()
	var ops []string
	c := New(ctx, "s", NewMemoryBackend(), Hooks{
		OnMutation: func(op string) { ops = append(ops, op) },
	})

	c.AddItem(ctx, product(1, 50, 10), 1)
	c.UpdateQuantity(ctx, 1, 2)
	c.RemoveItem(ctx, 1)
	c.Clear(ctx)

	want := []string{"add_item", "update_quantity", "remove_item", "clear"}
	if len(ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ops)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	first := New(ctx, "visitor-9", backend, Hooks{})
	first.AddItem(ctx, product(1, 50, 10), 2)
	first.AddItem(ctx, product(2, 30, 10), 1)

	second := New(ctx, "visitor-9", backend, Hooks{})
	if second.TotalItemCount() != 3 {
		t.Fatalf("rehydrated cart should have 3 items, got %d", second.TotalItemCount())
	}
	if !second.TotalAmount().Equal(decimal.NewFromInt(130)) {
		t.Fatalf("rehydrated amount mismatch: %s", second.TotalAmount())
	}
	totalsConsistent(t, second)
}

func TestHydrationAbsorbsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	backend.snapshots["visitor-1"] = []byte("{not json")

	var anomalies int
	c := New(ctx, "visitor-1", backend, Hooks{
		OnAnomaly: func(string, string) { anomalies++ },
	})

	if c.TotalItemCount() != 0 || len(c.Lines()) != 0 {
		t.Fatal("corrupt snapshot must hydrate as empty cart")
	}
	if anomalies == 0 {
		t.Fatal("corrupt snapshot should report an anomaly")
	}
}

type failingBackend struct{}

func (failingBackend) Load(context.Context, string) ([]Line, error) { return nil, nil }
func (failingBackend) Save(context.Context, string, []Line) error {
	return context.DeadlineExceeded
}

func TestPersistFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	var persistErrs int
	c := New(ctx, "s", failingBackend{}, Hooks{
		OnPersistError: func(error) { persistErrs++ },
	})

	c.AddItem(ctx, product(1, 50, 10), 2)

	if c.TotalItemCount() != 2 {
		t.Fatal("mutation must survive a persistence failure")
	}
	if persistErrs != 1 {
		t.Fatalf("expected one persist error report, got %d", persistErrs)
	}
}
