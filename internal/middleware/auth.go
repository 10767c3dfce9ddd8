package middleware

import (
	"net/http"
	"strings"

	"smart-reminder/pkg/jwtutil"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ClaimsKey is the echo context key holding the validated *jwtutil.UserClaims
const ClaimsKey = "user"

// JWTAuthMiddleware validates the bearer token and stores its claims under ClaimsKey
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
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			c.Set(ClaimsKey, claims)
			log.Debug("JWT token validated successfully",
				zap.String("subject", claims.Subject),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// RequireRole rejects sessions whose role differs from role
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok || claims.Role != role {
				logger.FromEcho(c).Warn("Forbidden role", zap.String("required", role))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Claims returns the session claims set by JWTAuthMiddleware
func Claims(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*jwtutil.UserClaims)
	return claims, ok && claims != nil
}
