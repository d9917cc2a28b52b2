package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sematx/opendata-seed/internal/auth"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
	RolesKey   contextKey = "roles"
)

// AuthMiddleware handles JWT validation for tokens minted by gen-jwt-token.
func AuthMiddleware(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			// Expect format: "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				log.Warn("invalid token", "error", err)
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if claims.Subject == "" {
				log.Warn("token missing subject claim")
				http.Error(w, "token missing subject", http.StatusUnauthorized)
				return
			}

			// Inject into Context
			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, RolesKey, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject retrieves the token subject from context
func GetSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectKey).(string)
	return sub, ok
}

// GetRoles retrieves the token roles from context
func GetRoles(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(RolesKey).([]string)
	return roles, ok
}
