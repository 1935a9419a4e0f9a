package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// userID value — no other package can collide with or shadow it.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is a middleware that enforces authentication on protected
// routes. It reads the JWT from the `Authorization: Bearer <token>` header,
// validates it, and stores the userID in the request context. A missing or
// invalid token stops the chain with 401 — the same response body either
// way, so a caller cannot tell which it was.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns (0, false) if the request is anonymous.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID pulls the bearer token out of the Authorization header and
// validates it.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return 0, ErrInvalidToken
	}

	return tokens.Validate(tokenStr)
}
