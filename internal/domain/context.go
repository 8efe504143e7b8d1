package domain

import "context"

type principalKey struct{}

// ContextPrincipal is the authenticated caller as seen by services. Auth
// middleware stores one in the request context; audit records and admin
// checks read it back.
type ContextPrincipal struct {
	Name    string
	IsAdmin bool
	Type    string // "user" or "api_key"
}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext reports the principal and whether one was attached.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}
