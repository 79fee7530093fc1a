package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mehedi/streambox/internal/httputil"
)

type contextKey string

const contextAdmin contextKey = "admin"

// RequireAdmin rejects requests without a valid admin session token and
// places the claims on the request context for handlers.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "authentication required")
			return
		}
		claims, err := a.ValidateToken(token)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), contextAdmin, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AdminFromContext(ctx context.Context) *Claims {
	if v, ok := ctx.Value(contextAdmin).(*Claims); ok {
		return v
	}
	return nil
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
