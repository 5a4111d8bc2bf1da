package auth

import (
	"context"

	"github.com/shaderlpay/backend/internal/model"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

// WithPrincipal sets the principal on the context.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
