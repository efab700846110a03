package auth

import (
	"context"
)

type contextKey string

var userClaimsKey contextKey = "user_claims"

func SetClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

func GetClaims(ctx context.Context) *Claims {
	val := ctx.Value(userClaimsKey)
	if claims, ok := val.(*Claims); ok {
		return claims
	}
	return nil
}
