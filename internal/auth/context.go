package auth

import "context"

type ctxKey string

const tokenKey ctxKey = "identityToken"

// WithToken stores a raw bearer token on the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the raw bearer token carried by the context, or
// "" when the request was unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey).(string); ok {
		return v
	}
	return ""
}
