package middleware

import (
	"context"
	"net/http"
	"strings"

	"inventory-api/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware verifies the bearer token on every protected request.
// Verification (signature, expiry, revocation) is delegated to the auth
// service; on success the user ID lands in the request context.
func AuthMiddleware(auth service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := auth.VerifyToken(r.Context(), parts[1])
			if err != nil {
				logger.Debug("Token verification failed", zap.Error(err))
				if err == service.ErrTokenRevoked {
					RespondWithError(w, http.StatusUnauthorized, "token revoked")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)

			logger.Debug("User authenticated", zap.String("user_id", claims.UserID.String()))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
