package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// SetOwnerID stores the verified caller identity on the context. It is the
// only way identity reaches the handlers; there is no ambient fallback.
func SetOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerID returns the caller identity set by the auth middleware, or ""
// when the request was never authenticated.
func GetOwnerID(r *http.Request) string {
	v, _ := r.Context().Value(ownerIDKey).(string)
	return v
}
