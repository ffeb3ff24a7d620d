package middleware

import (
	"context"
	"net/http"

	"github.com/ecomsuite/storefront/pkg/logger"
	"github.com/google/uuid"
)

type sessionIDKey struct{}

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "sf_session"
)

// Session resolves the cart session for the request. Order of
// precedence: explicit header, existing cookie, then a freshly minted
// uuid which is set as a cookie so subsequent requests reuse the same
// cart slot.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(SessionHeader, id)
			ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID injects a session id directly, bypassing cookie
// negotiation. Used by handler tests.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
