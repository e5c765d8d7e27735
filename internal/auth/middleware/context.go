package auth

import "context"

// Principal identifies the caller of a request once its token is verified.
// RequestLogger attaches an empty one up front so the verified identity is
// visible to it after the handler chain returns.
type Principal struct {
	Sub  string
	Role string
}

type principalKey struct{}

// WithPrincipal attaches p to ctx. JWTMiddleware fills in an attached
// principal rather than replacing it.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// SubjectFromContext is the verified token subject, or "" for anonymous calls.
func SubjectFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Sub
	}
	return ""
}
