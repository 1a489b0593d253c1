package auth

import (
	"net/http"
	"strings"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/httpx"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller id in the request context.
func Middleware(manager *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httpx.WriteError(w, apperr.Unauthorized("missing bearer token"))
				return
			}

			claims, err := manager.Parse(token)
			if err != nil {
				httpx.WriteError(w, apperr.Unauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}
