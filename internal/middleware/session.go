package middleware

import (
	"smart-reminder/internal/state"

	"github.com/labstack/echo/v4"
)

// SessionScope tags the request context with the session kind named by the token,
// so demo tokens only ever reach the demo session. Runs after JWTAuthMiddleware.
func SessionScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if ok && claims.Demo {
				req := c.Request()
				c.SetRequest(req.WithContext(state.WithDemo(req.Context(), true)))
			}
			return next(c)
		}
	}
}
