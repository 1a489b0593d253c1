package auth

import "context"

type contextKey struct{}

var userIDKey contextKey

// WithUserID returns ctx carrying the authenticated caller's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the caller id the middleware stored, or "" when the
// request was not authenticated.
func UserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}
