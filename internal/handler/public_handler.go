package handler

import (
	"errors"
	"net/http"
	"time"

	"smart-reminder/internal/model"
	"smart-reminder/internal/store"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Landing returns what the public landing page shows: social links, plan prices and trial length
func (h *Handler) Landing(c echo.Context) error {
	s := h.state.Settings()
	return c.JSON(http.StatusOK, echo.Map{
		"social_links":         s.SocialLinks.Data(),
		"plans":                s.Plans,
		"trial_duration_hours": int(h.state.TrialWindow() / time.Hour),
		"maintenance":          s.GlobalMaintenance,
	})
}

// PricingQuote prices a plan, optionally applying a discount code
func (h *Handler) PricingQuote(c echo.Context) error {
	log := logger.FromEcho(c)

	plan := model.PlanType(c.QueryParam("plan"))
	if !plan.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan must be basic, pro or enterprise"})
	}
	price := h.state.Settings().Plans.Price(plan)
	resp := echo.Map{
		"plan":        plan,
		"price":       price,
		"final_price": price,
	}

	code := model.NormalizeCode(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusOK, resp)
	}

	d, err := h.store.FindDiscountCode(c.Request().Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "discount code not found"})
	}
	if err != nil {
		return internalError(c, "failed to look up discount code", err, zap.String("code", code))
	}
	if !d.Usable(h.state.Now().UTC().Format(model.DateLayout)) {
		log.Info("Rejected unusable discount code", zap.String("code", code))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "discount code is inactive or expired"})
	}

	final := d.Apply(price)
	resp["code"] = d.Code
	resp["discount"] = price.Sub(final)
	resp["final_price"] = final
	return c.JSON(http.StatusOK, resp)
}
