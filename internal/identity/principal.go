// Package identity provides authentication primitives: the request
// principal, password hashing, bearer tokens, and admin bootstrap.
package identity

import (
	"context"
	"fmt"

	"github.com/MoizAnsari7/itest-backend/internal/errs"
	"github.com/MoizAnsari7/itest-backend/internal/store"
)

// Principal is the authenticated caller of a request. Operations that
// need authorization take it as an explicit argument; it is never read
// from ambient state inside a service.
type Principal struct {
	UserID string
	Role   store.Role
}

type principalKey struct{}

// WithPrincipal attaches a principal to the context.
// Only the HTTP auth middleware should call this.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequirePrincipal returns the request principal or ErrUnauthenticated.
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return Principal{}, fmt.Errorf("%w: authentication required", errs.ErrUnauthenticated)
	}
	return p, nil
}

// RequireRole checks that the principal holds one of the given roles.
func RequireRole(p Principal, roles ...store.Role) error {
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: access denied", errs.ErrForbidden)
}
