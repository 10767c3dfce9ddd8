package middleware

import (
	"context"
	"net/http"
	"time"

	"smart-reminder/internal/model"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SettingsSource exposes the current platform settings
type SettingsSource interface {
	Settings() model.PlatformSettings
}

// FrozenSource evaluates the subscription freeze of the session ctx belongs to
type FrozenSource interface {
	Now() time.Time
	Frozen(ctx context.Context, now time.Time) bool
}

// MaintenanceGuard answers 503 for merchant traffic while global maintenance is on
func MaintenanceGuard(src SettingsSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if src.Settings().GlobalMaintenance {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{
					"error": "platform under maintenance",
					"code":  "maintenance",
				})
			}
			return next(c)
		}
	}
}

// FrozenGuard blocks feature access with 402 while the subscription is frozen.
// Paths listed in allow stay reachable so the client can show the subscription screen.
func FrozenGuard(src FrozenSource, allow ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allow))
	for _, p := range allow {
		allowed[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[c.Path()]; ok {
				return next(c)
			}
			if src.Frozen(c.Request().Context(), src.Now()) {
				logger.FromEcho(c).Info("Blocked frozen merchant", zap.String("path", c.Path()))
				return c.JSON(http.StatusPaymentRequired, echo.Map{
					"error": "subscription frozen",
					"code":  "subscription_frozen",
				})
			}
			return next(c)
		}
	}
}
