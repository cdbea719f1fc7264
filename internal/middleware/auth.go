package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/jwt"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// TokenVerifier checks a bearer token and returns the user id it was issued to
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

var _ TokenVerifier = (*jwt.JWTService)(nil)

// AuthMiddleware rejects requests without a valid bearer token. On success the
// user id is attached to the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortWith(c, apperrors.Unauthenticated("Not authorized, token missing"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, apperrors.Unauthenticated("Not authorized, token missing"))
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortWith(c, apperrors.Unauthenticated("Not authorized, invalid token"))
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// abortWith records err for ErrorHandler and stops the chain
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// WithUserID returns a copy of ctx carrying userID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the user id stored by WithUserID
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware
func CurrentUserID(c *gin.Context) (string, bool) {
	return UserIDFromContext(c.Request.Context())
}
