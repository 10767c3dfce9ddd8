package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-reminder/internal/model"
	"smart-reminder/internal/report"
	"smart-reminder/internal/store"
	"smart-reminder/pkg/logger"
	"smart-reminder/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListMerchants returns the merchant directory filtered by ?search= and ?field= (business type)
func (h *Handler) ListMerchants(c echo.Context) error {
	list, err := h.state.Merchants(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load merchants", err)
	}
	filtered := report.FilterMerchants(list, c.QueryParam("search"), c.QueryParam("field"))
	return c.JSON(http.StatusOK, echo.Map{
		"merchants":      filtered,
		"total":          len(filtered),
		"business_types": report.BusinessTypes(list),
	})
}

// ListExpiredMerchants returns merchants whose trial ran out or who are frozen/expired
func (h *Handler) ListExpiredMerchants(c echo.Context) error {
	list, err := h.state.Merchants(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load merchants", err)
	}
	expired := report.ExpiredMerchants(list, h.state.Now(), h.state.TrialWindow())
	return c.JSON(http.StatusOK, echo.Map{
		"merchants": expired,
		"total":     len(expired),
	})
}

func sendCSV(c echo.Context, name string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

// ExportMerchants downloads the merchant directory as CSV
func (h *Handler) ExportMerchants(c echo.Context) error {
	list, err := h.state.Merchants(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load merchants", err)
	}
	var buf bytes.Buffer
	if err := report.WriteMerchantsCSV(&buf, list, h.state.Settings().Plans); err != nil {
		return internalError(c, "failed to build report", err)
	}
	prometheus.ExportCounter.WithLabelValues("merchants").Inc()
	return sendCSV(c, report.MerchantsFileName(h.state.Now()), buf.Bytes())
}

// ExportExpiredMerchants downloads the expired-trial list as CSV
func (h *Handler) ExportExpiredMerchants(c echo.Context) error {
	list, err := h.state.Merchants(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load merchants", err)
	}
	now := h.state.Now()
	var buf bytes.Buffer
	if err := report.WriteExpiredCSV(&buf, report.ExpiredMerchants(list, now, h.state.TrialWindow())); err != nil {
		return internalError(c, "failed to build report", err)
	}
	prometheus.ExportCounter.WithLabelValues("expired").Inc()
	return sendCSV(c, report.ExpiredFileName(now), buf.Bytes())
}

// ChangeMerchantStatus activates, freezes or expires a merchant subscription
func (h *Handler) ChangeMerchantStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req struct {
		Status model.SubscriptionStatus `json:"status"`
		Plan   model.PlanType           `json:"plan"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be trial, active, frozen or expired"})
	}
	if req.Plan != "" && !req.Plan.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan must be basic, pro or enterprise"})
	}

	m, err := h.state.ChangeMerchantStatus(c.Request().Context(), id, req.Status, req.Plan)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not found"})
	}
	if err != nil {
		return internalError(c, "failed to change status", err, zap.String("merchant_id", id))
	}

	prometheus.AdminOperationCounter.WithLabelValues("change_status").Inc()
	log.Info("Merchant status changed",
		zap.String("admin", claims(c).Subject),
		zap.String("merchant_id", id),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, m)
}

// DeleteMerchant removes a merchant and its generated content
func (h *Handler) DeleteMerchant(c echo.Context) error {
	id := c.Param("id")
	err := h.state.DeleteMerchant(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not found"})
	}
	if err != nil {
		return internalError(c, "failed to delete merchant", err, zap.String("merchant_id", id))
	}

	prometheus.AdminOperationCounter.WithLabelValues("delete_merchant").Inc()
	logger.FromEcho(c).Info("Merchant deleted", zap.String("admin", claims(c).Subject), zap.String("merchant_id", id))
	return c.NoContent(http.StatusNoContent)
}

// Stats returns revenue and subscription distribution
func (h *Handler) Stats(c echo.Context) error {
	list, err := h.state.Merchants(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load merchants", err)
	}
	return c.JSON(http.StatusOK, report.ComputeStats(list, h.state.Settings().Plans))
}

type eventRequest struct {
	Title       model.Localized `json:"title"`
	Date        string          `json:"date"`
	Type        model.EventType `json:"type"`
	Description model.Localized `json:"description"`
	Priority    model.Priority  `json:"priority"`
}

func (r eventRequest) validate() string {
	if strings.TrimSpace(r.Title.Ar) == "" && strings.TrimSpace(r.Title.En) == "" {
		return "title is required"
	}
	if _, err := time.Parse(model.DateLayout, r.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	return ""
}

func (r eventRequest) event(id string) model.MarketingEvent {
	if r.Type == "" {
		r.Type = model.EventCustom
	}
	if r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	return model.NewEvent(id, r.Title, r.Date, r.Type, r.Description, r.Priority)
}

// CreateEvent adds a marketing event to the catalogue
func (h *Handler) CreateEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	e, err := h.state.AddEvent(c.Request().Context(), req.event(""))
	if err != nil {
		return internalError(c, "failed to create event", err)
	}
	prometheus.AdminOperationCounter.WithLabelValues("create_event").Inc()
	return c.JSON(http.StatusCreated, e)
}

// UpdateEvent replaces a marketing event
func (h *Handler) UpdateEvent(c echo.Context) error {
	id := c.Param("id")
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	e, err := h.state.UpdateEvent(c.Request().Context(), req.event(id))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return internalError(c, "failed to update event", err, zap.String("event_id", id))
	}
	prometheus.AdminOperationCounter.WithLabelValues("update_event").Inc()
	return c.JSON(http.StatusOK, e)
}

// DeleteEvent removes a marketing event
func (h *Handler) DeleteEvent(c echo.Context) error {
	id := c.Param("id")
	err := h.state.RemoveEvent(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return internalError(c, "failed to delete event", err, zap.String("event_id", id))
	}
	prometheus.AdminOperationCounter.WithLabelValues("delete_event").Inc()
	return c.NoContent(http.StatusNoContent)
}

// UpdatePricing replaces the plan price table
func (h *Handler) UpdatePricing(c echo.Context) error {
	var plans model.PlanPrices
	if err := c.Bind(&plans); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	for _, p := range []decimal.Decimal{plans.Basic, plans.Pro, plans.Enterprise} {
		if p.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices cannot be negative"})
		}
	}

	s, err := h.state.UpdateSettings(c.Request().Context(), model.SettingsPatch{Plans: &plans})
	if err != nil {
		return internalError(c, "failed to update pricing", err)
	}
	prometheus.AdminOperationCounter.WithLabelValues("update_pricing").Inc()
	return c.JSON(http.StatusOK, s.Plans)
}

// GetSettings returns the platform settings
func (h *Handler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Settings())
}

// UpdateSettings merges social links, maintenance mode, trial length or prices into the settings
func (h *Handler) UpdateSettings(c echo.Context) error {
	var patch model.SettingsPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if patch.TrialDurationHours != nil && *patch.TrialDurationHours < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trial duration cannot be negative"})
	}

	s, err := h.state.UpdateSettings(c.Request().Context(), patch)
	if err != nil {
		return internalError(c, "failed to update settings", err)
	}
	prometheus.AdminOperationCounter.WithLabelValues("update_settings").Inc()
	if patch.GlobalMaintenance != nil {
		logger.FromEcho(c).Info("Maintenance mode changed", zap.Bool("enabled", s.GlobalMaintenance))
	}
	return c.JSON(http.StatusOK, s)
}

// ListDiscounts returns every discount code
func (h *Handler) ListDiscounts(c echo.Context) error {
	codes, err := h.store.ListDiscountCodes(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to load discount codes", err)
	}
	return c.JSON(http.StatusOK, codes)
}

// CreateDiscount adds a discount code
func (h *Handler) CreateDiscount(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code       string             `json:"code"`
		Type       model.DiscountType `json:"type"`
		Value      decimal.Decimal    `json:"value"`
		IsActive   *bool              `json:"is_active"`
		ExpiryDate string             `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	code := model.NormalizeCode(req.Code)
	switch {
	case code == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	case req.Type != model.DiscountPercentage && req.Type != model.DiscountFixed:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be percentage or fixed"})
	case !req.Value.IsPositive():
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value must be positive"})
	case req.Type == model.DiscountPercentage && req.Value.GreaterThan(decimal.NewFromInt(100)):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percentage cannot exceed 100"})
	}
	if req.ExpiryDate != "" {
		if _, err := time.Parse(model.DateLayout, req.ExpiryDate); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expiry_date must be YYYY-MM-DD"})
		}
	}

	if _, err := h.store.FindDiscountCode(ctx, code); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "discount code already exists"})
	} else if !errors.Is(err, store.ErrNotFound) {
		return internalError(c, "failed to look up discount code", err)
	}

	d := model.DiscountCode{
		ID:         model.NewID("dc_"),
		Code:       code,
		Type:       req.Type,
		Value:      req.Value,
		IsActive:   req.IsActive == nil || *req.IsActive,
		ExpiryDate: req.ExpiryDate,
		CreatedAt:  h.state.Now().UTC(),
	}
	if err := h.store.SaveDiscountCode(ctx, d); err != nil {
		return internalError(c, "failed to save discount code", err)
	}
	prometheus.AdminOperationCounter.WithLabelValues("create_discount").Inc()
	return c.JSON(http.StatusCreated, d)
}

// DeleteDiscount removes a discount code
func (h *Handler) DeleteDiscount(c echo.Context) error {
	id := c.Param("id")
	err := h.store.DeleteDiscountCode(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "discount code not found"})
	}
	if err != nil {
		return internalError(c, "failed to delete discount code", err, zap.String("discount_id", id))
	}
	prometheus.AdminOperationCounter.WithLabelValues("delete_discount").Inc()
	return c.NoContent(http.StatusNoContent)
}
