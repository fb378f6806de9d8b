package middleware

import "context"

type ctxKey string

const (
	ctxSubject ctxKey = "subject"
	ctxRole    ctxKey = "role"
)

func WithUser(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, ctxSubject, subject)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

// SubjectFromContext returns the token subject (the user's email).
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxSubject).(string)
	return v, ok && v != ""
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRole).(string)
	return v, ok && v != ""
}
