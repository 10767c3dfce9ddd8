package handler

import (
	"net/http"

	"smart-reminder/internal/analysis"
	"smart-reminder/internal/media"
	"smart-reminder/internal/middleware"
	"smart-reminder/internal/state"
	"smart-reminder/internal/store"
	"smart-reminder/internal/studio"
	"smart-reminder/pkg/config"
	"smart-reminder/pkg/jwtutil"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the merchant, admin and public API
type Handler struct {
	state    *state.State
	store    store.Store
	studio   *studio.Service
	analysis *analysis.Service
	uploader media.Uploader
	jwt      *jwtutil.JWTUtil
	admin    config.AdminConfig
}

// Deps are the collaborators a Handler needs
type Deps struct {
	State    *state.State
	Store    store.Store
	Studio   *studio.Service
	Analysis *analysis.Service
	Uploader media.Uploader
	JWT      *jwtutil.JWTUtil
	Admin    config.AdminConfig
}

func New(d Deps) *Handler {
	if d.Uploader == nil {
		d.Uploader = media.Passthrough{}
	}
	return &Handler{
		state:    d.State,
		store:    d.Store,
		studio:   d.Studio,
		analysis: d.Analysis,
		uploader: d.Uploader,
		jwt:      d.JWT,
		admin:    d.Admin,
	}
}

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	// Public routes
	e.GET("/health", h.HealthCheck)
	e.GET("/landing", h.Landing)
	e.GET("/pricing/quote", h.PricingQuote)
	e.POST("/auth/register", h.RegisterMerchant)
	e.POST("/auth/login", h.Login)
	e.POST("/admin/login", h.AdminLogin)

	// Merchant routes
	auth := middleware.JWTAuthMiddleware(h.jwt)
	m := e.Group("",
		auth,
		middleware.RequireRole(jwtutil.RoleMerchant),
		middleware.SessionScope(),
		middleware.MaintenanceGuard(h.state),
		middleware.FrozenGuard(h.state, "/me/status", "/auth/logout"),
	)
	m.GET("/me/status", h.Status)
	m.POST("/auth/logout", h.Logout)
	m.GET("/profile", h.GetProfile)
	m.PATCH("/profile", h.UpdateProfile)
	m.POST("/profile/logo", h.UploadLogo)
	m.GET("/profile/palettes", h.ListPalettes)
	m.POST("/profile/palette", h.ApplyPalette)
	m.GET("/dashboard", h.Dashboard)
	m.GET("/calendar", h.Calendar)
	m.GET("/events", h.ListEvents)
	m.PUT("/navigation", h.Navigate)
	m.GET("/contents", h.ListContents)
	m.POST("/studio/generate", h.Generate)
	m.POST("/studio/voiceover", h.Voiceover)
	m.POST("/analysis/campaign", h.AnalyzeCampaign)
	m.POST("/analysis/audit", h.AuditStore)

	// Founder dashboard
	a := e.Group("/admin", auth, middleware.RequireRole(jwtutil.RoleAdmin))
	a.GET("/merchants", h.ListMerchants)
	a.GET("/merchants/expired", h.ListExpiredMerchants)
	a.GET("/merchants/export.csv", h.ExportMerchants)
	a.GET("/merchants/expired/export.csv", h.ExportExpiredMerchants)
	a.PUT("/merchants/:id/status", h.ChangeMerchantStatus)
	a.DELETE("/merchants/:id", h.DeleteMerchant)
	a.GET("/stats", h.Stats)
	a.POST("/events", h.CreateEvent)
	a.PUT("/events/:id", h.UpdateEvent)
	a.DELETE("/events/:id", h.DeleteEvent)
	a.PUT("/pricing", h.UpdatePricing)
	a.GET("/settings", h.GetSettings)
	a.PUT("/settings", h.UpdateSettings)
	a.GET("/discounts", h.ListDiscounts)
	a.POST("/discounts", h.CreateDiscount)
	a.DELETE("/discounts/:id", h.DeleteDiscount)
}

func claims(c echo.Context) *jwtutil.UserClaims {
	if cl, ok := middleware.Claims(c); ok {
		return cl
	}
	return &jwtutil.UserClaims{}
}

func internalError(c echo.Context, msg string, err error, fields ...zap.Field) error {
	logger.FromEcho(c).Error(msg, append(fields, zap.Error(err))...)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
