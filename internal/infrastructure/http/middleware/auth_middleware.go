package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

type contextKey string

// UserContextKey is where the authenticated user is stashed on the echo context.
const UserContextKey contextKey = "user"

// SessionValidator resolves a bearer token into the user it belongs to.
type SessionValidator interface {
	ValidateSession(ctx context.Context, accessToken string) (*entities.User, error)
}

// AuthMiddleware guards routes that require an authenticated user.
type AuthMiddleware struct {
	auth   SessionValidator
	logger *zap.Logger
}

// NewAuthMiddleware creates an auth middleware
func NewAuthMiddleware(auth SessionValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: logger}
}

// ExtractToken pulls the access token from the Authorization header, falling
// back to the access_token cookie for browser clients.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// Authenticate validates the access token and stores the user on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		}

		user, err := m.auth.ValidateSession(c.Request().Context(), token)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("⚠️ Rejected request with invalid session", zap.Error(err))
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
		}

		c.Set(string(UserContextKey), user)
		return next(c)
	}
}
