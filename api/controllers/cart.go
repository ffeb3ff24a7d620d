package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ecomsuite/storefront/api/middleware"
	"github.com/ecomsuite/storefront/api/responses"
	"github.com/ecomsuite/storefront/api/validators"
	"github.com/ecomsuite/storefront/internal/cart"
	"github.com/ecomsuite/storefront/internal/catalog"
	pkgerrors "github.com/ecomsuite/storefront/pkg/errors"
	"github.com/ecomsuite/storefront/pkg/logger"
)

type cartLineView struct {
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartView struct {
	Items          []cartLineView  `json:"items"`
	TotalItemCount int             `json:"totalItemCount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

func viewOf(c *cart.Cart) cartView {
	lines := c.Lines()
	items := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartLineView{
			Product:   line.Product,
			Quantity:  line.Quantity,
			LineTotal: line.Product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return cartView{
		Items:          items,
		TotalItemCount: c.TotalItemCount(),
		TotalAmount:    c.TotalAmount(),
	}
}

func sessionCart(r *http.Request, store *cart.Store) (*cart.Cart, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id missing")
	}
	return store.Cart(r.Context(), sessionID), nil
}

// GetCart returns the session's cart with derived totals.
func GetCart(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(c))
	}
}

type addCartItemRequest struct {
	ProductID int  `json:"productId" validate:"required"`
	Quantity  *int `json:"quantity,omitempty"`
}

// AddCartItem increments the line for the product, snapshotting the
// product from the catalog at add time. Quantity defaults to 1.
func AddCartItem(store *cart.Store, engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := engine.ProductByID(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		c, err := sessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := 1
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}
		c.AddItem(r.Context(), product, quantity)
		responses.WriteSuccess(w, viewOf(c))
	}
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// UpdateCartItem sets the line quantity exactly; zero or less removes
// the line.
func UpdateCartItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be numeric"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := sessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.UpdateQuantity(r.Context(), productID, *payload.Quantity)
		responses.WriteSuccess(w, viewOf(c))
	}
}

// RemoveCartItem deletes the line; removing an absent line is a no-op.
func RemoveCartItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be numeric"))
			return
		}

		c, err := sessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.RemoveItem(r.Context(), productID)
		responses.WriteSuccess(w, viewOf(c))
	}
}

// ClearCart empties the session's cart.
func ClearCart(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := sessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(c))
	}
}
