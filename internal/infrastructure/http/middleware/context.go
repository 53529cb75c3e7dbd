package middleware

import (
	"context"

	"github.com/Asjad-Ilahi/devops/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity injects the verified session identity into the context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the session identity, or nil for an anonymous request.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}
