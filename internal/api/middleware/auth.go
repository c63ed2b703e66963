package middleware

import (
	"context"
	"net/http"

	"github.com/sharetours/booking-service/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDHeader carries the caller identity. The value is an opaque token
// issued upstream; this service records it and never interprets it.
const UserIDHeader = "X-User-ID"

// Auth requires the identity header on every request and stores the value
// in the request context
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			handlers.RespondUnauthorized(w, "missing "+UserIDHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the caller identity stored by Auth, or "" when absent
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
