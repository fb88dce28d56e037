package shared

import "context"

// Identity describes the authenticated admin attached to a request.
type Identity struct {
	AdminID int64
	Email   string
	Name    string
}

type identityContextKey struct{}

// ContextWithIdentity stores the admin identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the admin identity from context. The second
// return value is false when no identity was attached.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
