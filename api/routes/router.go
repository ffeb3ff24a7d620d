package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecomsuite/storefront/api/controllers"
	"github.com/ecomsuite/storefront/api/middleware"
	"github.com/ecomsuite/storefront/internal/cart"
	"github.com/ecomsuite/storefront/internal/catalog"
	"github.com/ecomsuite/storefront/pkg/config"
	"github.com/ecomsuite/storefront/pkg/logger"
	"github.com/ecomsuite/storefront/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. Pingers holds the
// optional storage dependencies probed by the readiness endpoint.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Engine    *catalog.Engine
	CartStore *cart.Store
	Metrics   *metrics.CommerceMetrics
	Registry  *prometheus.Registry
	Pingers   map[string]controllers.Pinger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID,
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.Pingers))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Engine, d.Metrics, d.Logger))
			r.Get("/search", controllers.SearchProducts(d.Engine, d.Metrics, d.Logger))
			r.Get("/{productId}", controllers.GetProduct(d.Engine, d.Logger))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(d.Engine, d.Logger))
			r.Get("/{categoryId}/products", controllers.CategoryProducts(d.Engine, d.Metrics, d.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(d.Logger))
			r.Get("/", controllers.GetCart(d.CartStore, d.Logger))
			r.Delete("/", controllers.ClearCart(d.CartStore, d.Logger))
			r.Post("/items", controllers.AddCartItem(d.CartStore, d.Engine, d.Logger))
			r.Put("/items/{productId}", controllers.UpdateCartItem(d.CartStore, d.Logger))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(d.CartStore, d.Logger))
		})
	})

	return r
}
