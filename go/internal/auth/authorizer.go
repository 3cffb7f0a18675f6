package auth

import (
	"context"
	"strings"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

// Authorizer decides admin capability from the configured admin emails
type Authorizer struct {
	admins map[string]struct{}
}

// NewAuthorizer builds an Authorizer; emails are compared case-insensitively
func NewAuthorizer(adminEmails []string) *Authorizer {
	a := &Authorizer{admins: make(map[string]struct{}, len(adminEmails))}
	for _, e := range adminEmails {
		e = normalizeEmail(e)
		if e != "" {
			a.admins[e] = struct{}{}
		}
	}
	return a
}

// IsAdmin reports whether p holds the admin capability
func (a *Authorizer) IsAdmin(p Principal) bool {
	return a.IsAdminEmail(p.Email)
}

// IsAdminEmail reports whether email belongs to an admin
func (a *Authorizer) IsAdminEmail(email string) bool {
	_, ok := a.admins[normalizeEmail(email)]
	return ok
}

// AdminEmails returns the configured admin emails
func (a *Authorizer) AdminEmails() []string {
	out := make([]string, 0, len(a.admins))
	for e := range a.admins {
		out = append(out, e)
	}
	return out
}

// RequireAdmin returns the caller when it is an admin, else Unauthorized
func (a *Authorizer) RequireAdmin(ctx context.Context) (Principal, error) {
	p, err := RequireUser(ctx)
	if err != nil {
		return Principal{}, err
	}
	if !a.IsAdmin(p) {
		return Principal{}, errs.Unauthorized("admin access required")
	}
	return p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
