package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/service"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID"    // Key for storing UserID in fiber.Ctx locals
	SessionIDKey        = "sessionID" // Key for storing SessionID in fiber.Ctx locals
)

// Protected requires a valid session token and stores the user and session ids in locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.Get().Debug("Rejected session token", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "INVALID_TOKEN", err.Error())
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(SessionIDKey, claims.SessionID)

		return c.Next()
	}
}

// Identity returns the user and session ids set by Protected.
func Identity(c *fiber.Ctx) (userID, sessionID string) {
	userID, _ = c.Locals(UserIDKey).(string)
	sessionID, _ = c.Locals(SessionIDKey).(string)
	return userID, sessionID
}

func unauthorized(c *fiber.Ctx, reason, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   message,
		Code:    string(domain.CodeUnauthorized),
		Details: map[string]interface{}{"reason": reason},
	})
}
