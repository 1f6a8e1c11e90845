package middleware

import "context"

type contextKey string

const userIDContextKey contextKey = "middleware.user_id"

// WithUserID stores the authenticated user ID in the context. Auth middleware
// calls this once the caller's identity is established.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user ID, or "" when the request
// is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}
