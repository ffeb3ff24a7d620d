package middleware

import (
	"net/http"

	"github.com/ecomsuite/storefront/pkg/config"
	"github.com/go-chi/cors"
)

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader, SessionHeader},
		ExposedHeaders:   []string{RequestIDHeader, SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
