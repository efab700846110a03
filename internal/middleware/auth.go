package middleware

import (
	"net/http"
	"os"
	"strings"

	"activity-platform/participation/internal/auth"
	"activity-platform/participation/internal/models/entities"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the caller's claims
// in the request context. Tokens carry sub (user id), email and
// subscription_level; missing subscription_level defaults to free.
func AuthMiddleware() func(http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			email, _ := claims["email"].(string)
			sub, _ := claims["subscription_level"].(string)
			if sub == "" {
				sub = string(entities.SubscriptionFree)
			}

			ctx := auth.SetClaims(r.Context(), &auth.Claims{
				UserID:            userID,
				Email:             email,
				SubscriptionLevel: entities.SubscriptionLevel(sub),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
