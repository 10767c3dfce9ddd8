package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"smart-reminder/internal/state"
	"smart-reminder/pkg/jwtutil"
	"smart-reminder/pkg/logger"
	"smart-reminder/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterMerchant signs the merchant up on a fresh trial and opens a session
func (h *Handler) RegisterMerchant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		StoreName    string   `json:"store_name"`
		BusinessType string   `json:"business_type"`
		Country      string   `json:"country"`
		Phone        string   `json:"phone"`
		Email        string   `json:"email"`
		Password     string   `json:"password"`
		Platforms    []string `json:"platforms"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if strings.TrimSpace(req.StoreName) == "" || !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "store name, a valid email and a password of at least 6 characters are required"})
	}

	m, err := h.state.Register(c.Request().Context(), state.RegisterInput{
		StoreName:    strings.TrimSpace(req.StoreName),
		BusinessType: req.BusinessType,
		Country:      req.Country,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     req.Password,
		Platforms:    req.Platforms,
	})
	if errors.Is(err, state.ErrAlreadyRegistered) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "merchant already registered"})
	}
	if err != nil {
		return internalError(c, "registration failed", err)
	}

	token, err := h.jwt.GenerateMerchantToken(m.ID, m.Email, false)
	if err != nil {
		return internalError(c, "failed to issue token", err)
	}

	log.Info("Merchant registered", zap.String("merchant_id", m.ID), zap.String("business_type", m.BusinessType))
	return c.JSON(http.StatusCreated, echo.Map{
		"token":    token,
		"merchant": m,
	})
}

// Login opens a merchant session, or the demo showcase when demo is set
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Demo     bool   `json:"demo"`
		Lang     string `json:"lang"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Demo {
		m := h.state.LoginAsDemo(req.Lang)
		token, err := h.jwt.GenerateMerchantToken(m.ID, m.Email, true)
		if err != nil {
			return internalError(c, "failed to issue token", err)
		}
		prometheus.LoginCounter.WithLabelValues("demo", "success").Inc()
		return c.JSON(http.StatusOK, echo.Map{"token": token, "merchant": m, "demo": true})
	}

	m, err := h.state.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, state.ErrNotRegistered):
		prometheus.LoginCounter.WithLabelValues(jwtutil.RoleMerchant, "failure").Inc()
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no merchant registered"})
	case errors.Is(err, state.ErrInvalidCredentials):
		prometheus.LoginCounter.WithLabelValues(jwtutil.RoleMerchant, "failure").Inc()
		log.Warn("Invalid merchant credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	case err != nil:
		return internalError(c, "login failed", err)
	}

	token, err := h.jwt.GenerateMerchantToken(m.ID, m.Email, false)
	if err != nil {
		return internalError(c, "failed to issue token", err)
	}
	prometheus.LoginCounter.WithLabelValues(jwtutil.RoleMerchant, "success").Inc()
	return c.JSON(http.StatusOK, echo.Map{"token": token, "merchant": m})
}

// AdminLogin checks the configured founder credential
func (h *Handler) AdminLogin(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse admin login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if h.admin.PasswordHash == "" {
		log.Warn("Admin login attempted without a configured credential")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "admin login is not configured"})
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		prometheus.LoginCounter.WithLabelValues(jwtutil.RoleAdmin, "failure").Inc()
		log.Warn("Invalid admin credentials", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	token, err := h.jwt.GenerateAdminToken(h.admin.Username)
	if err != nil {
		return internalError(c, "failed to issue token", err)
	}
	prometheus.LoginCounter.WithLabelValues(jwtutil.RoleAdmin, "success").Inc()
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Logout ends the merchant session and revokes the token that opened it
func (h *Handler) Logout(c echo.Context) error {
	if err := h.state.Logout(c.Request().Context()); err != nil {
		return internalError(c, "logout failed", err)
	}
	h.jwt.Revoke(claims(c))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
