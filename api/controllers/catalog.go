package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecomsuite/storefront/api/responses"
	"github.com/ecomsuite/storefront/api/validators"
	"github.com/ecomsuite/storefront/internal/catalog"
	pkgerrors "github.com/ecomsuite/storefront/pkg/errors"
	"github.com/ecomsuite/storefront/pkg/logger"
	"github.com/ecomsuite/storefront/pkg/metrics"
	"github.com/ecomsuite/storefront/pkg/pagination"
)

// ListProducts evaluates the filter described by the query string and
// returns one page of matches.
func ListProducts(engine *catalog.Engine, m *metrics.CommerceMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := filterSpecFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		matched := engine.Query(spec)
		m.ObserveQueryDuration("list", time.Since(start))

		page := pagination.Normalize(spec.PageNumber, spec.PageSize)
		rows := pagination.Window(matched, page)
		responses.WritePaginated(w, rows, len(matched), page.Number, page.Size, page.TotalPages(len(matched)))
	}
}

// GetProduct returns a single product by id.
func GetProduct(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be numeric"))
			return
		}

		product, ok := engine.ProductByID(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListCategories returns the full category collection.
func ListCategories(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Categories())
	}
}

// CategoryProducts returns every product in the category, bypassing the
// active filter.
func CategoryProducts(engine *catalog.Engine, m *metrics.CommerceMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "categoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category id must be numeric"))
			return
		}

		start := time.Now()
		rows := engine.ProductsByCategory(id)
		m.ObserveQueryDuration("category", time.Since(start))

		responses.WriteSuccess(w, rows)
	}
}

// SearchProducts matches the term case-insensitively against product
// name, description, and category name.
func SearchProducts(engine *catalog.Engine, m *metrics.CommerceMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}

		start := time.Now()
		rows := engine.SearchProducts(term)
		m.ObserveQueryDuration("search", time.Since(start))

		responses.WriteSuccess(w, rows)
	}
}

func filterSpecFromQuery(r *http.Request) (catalog.FilterSpec, error) {
	var spec catalog.FilterSpec
	var err error

	if spec.CategoryID, err = validators.ParseQueryIntPtr(r, "categoryId"); err != nil {
		return spec, err
	}
	if spec.SubCategoryID, err = validators.ParseQueryIntPtr(r, "subCategoryId"); err != nil {
		return spec, err
	}
	if spec.MinPrice, err = validators.ParseQueryDecimalPtr(r, "minPrice"); err != nil {
		return spec, err
	}
	if spec.MaxPrice, err = validators.ParseQueryDecimalPtr(r, "maxPrice"); err != nil {
		return spec, err
	}
	spec.SearchTerm = strings.TrimSpace(r.URL.Query().Get("search"))

	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		if !catalog.ValidSortField(sortBy) {
			return spec, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field").WithDetails(map[string]any{"field": "sortBy"})
		}
		spec.SortBy = catalog.SortField(sortBy)
	}
	switch order := r.URL.Query().Get("sortOrder"); order {
	case "", string(catalog.SortAsc):
	case string(catalog.SortDesc):
		spec.SortOrder = catalog.SortDesc
	default:
		return spec, pkgerrors.New(pkgerrors.CodeValidation, "sort order must be asc or desc").WithDetails(map[string]any{"field": "sortOrder"})
	}

	if spec.PageNumber, err = validators.ParseQueryInt(r, "pageNumber", 1, 1, 1<<30); err != nil {
		return spec, err
	}
	if spec.PageSize, err = validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize); err != nil {
		return spec, err
	}
	return spec, nil
}
