// Package auth carries the caller's identity from the session token into
// league operations and answers the admin question from configuration.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

// Principal is the authenticated caller
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

type principalKey struct{}

// WithPrincipal returns a context carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireUser returns the caller or an Unauthorized error
func RequireUser(ctx context.Context) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, errs.Unauthorized("sign in required")
	}
	return p, nil
}
