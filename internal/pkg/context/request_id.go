package context

import "context"

// Unexported key type so other packages cannot collide with our values.
type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores the request id for downstream log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the stored request id, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
