package auth

import "context"

type contextKey struct{}

// Identity is the authenticated caller of a panel request.
type Identity struct {
	Subject string
	Role    Role
}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the caller, or the zero Identity when the
// request was not authenticated.
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
