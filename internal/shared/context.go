package shared

import "context"

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal identity in context.
// The identity comes from the external identity provider and is trusted
// verbatim; no verification happens below this point.
func ContextWithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext extracts the principal identity from context. Returns
// the empty string when the request carried no identity.
func PrincipalFromContext(ctx context.Context) string {
	principal, _ := ctx.Value(principalContextKey{}).(string)
	return principal
}
