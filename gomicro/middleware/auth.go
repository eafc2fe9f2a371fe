package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"go.uber.org/zap"
)

const claimsKey = "user"

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			c.Set(claimsKey, claims)
			log.Debug("JWT token validated successfully",
				zap.String("user_id", claims.UserID.String()),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by JWTAuthMiddleware
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated owner id
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
