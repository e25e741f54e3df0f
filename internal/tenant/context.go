package tenant

import (
	"context"

	"github.com/vendorwatch/vendorwatch/internal/auth"
)

type contextKey string

const principalKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}
