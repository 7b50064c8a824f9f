package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const cashierIDKey ctxKey = "cashier_id"

// Middleware copies the cashier identity from the X-Cashier-ID header into
// the request context. Session issuance and verification belong to the auth
// service sitting in front of us; we only carry the actor reference through
// to the ledgers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Cashier-ID"); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), cashierIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// GetCashierID returns the acting cashier's id, or "" when absent.
func GetCashierID(ctx context.Context) string {
	if val, ok := ctx.Value(cashierIDKey).(string); ok {
		return val
	}
	return ""
}
