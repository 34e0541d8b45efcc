package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/captainhq/captain-backend/internal/modules/auth/infrastructure/jwt"
)

type contextKey string

const ContextKeyUserId contextKey = "user_id"

type AuthMiddleWare struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleWare {
	return &AuthMiddleWare{jwtSecret: jwtSecret}
}

// RequireAuth enforces authentication on HTTP requests. It accepts a
// Bearer token in the Authorization header or, for websocket upgrades
// where custom headers are awkward, a "token" query parameter. On
// success the user ID is injected into the request context.
func (m *AuthMiddleWare) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		authHeader := r.Header.Get("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			tokenStr = r.URL.Query().Get("token")
		}

		if tokenStr == "" {
			http.Error(w, `{"error": "missing or invalid authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := jwt.ValidateToken(tokenStr, m.jwtSecret)
		if err != nil {
			http.Error(w, `{"error": "invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserId, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
