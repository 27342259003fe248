package accounts

import (
	"context"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the resolved Principal in the given context
func WithPrincipal(r context.Context, principal *Principal) context.Context {
	return context.WithValue(r, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}

// IsSuperAdmin reports whether the context principal is an admin holding the
// SUPER_ADMIN permission.
func IsSuperAdmin(ctx context.Context) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.Kind == KindAdmin && principal.Permission == PermissionSuperAdmin
}
