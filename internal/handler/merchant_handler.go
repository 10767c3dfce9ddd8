package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smart-reminder/internal/calendar"
	"smart-reminder/internal/media"
	"smart-reminder/internal/model"
	"smart-reminder/internal/state"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxLogoBytes = 5 << 20

var views = map[string]bool{
	state.ViewDashboard:   true,
	state.ViewStudio:      true,
	state.ViewVoiceover:   true,
	state.ViewAnalysis:    true,
	state.ViewAudit:       true,
	state.ViewCalendar:    true,
	state.ViewProfile:     true,
	state.ViewDemoPreview: true,
}

// Status returns the session summary, including whether the subscription is frozen
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Status(c.Request().Context(), h.state.Now()))
}

// GetProfile returns the merchant profile
func (h *Handler) GetProfile(c echo.Context) error {
	m, ok := h.state.Profile(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not registered"})
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateProfile merges the submitted fields into the profile
func (h *Handler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	var patch model.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if patch.StoreName != nil && strings.TrimSpace(*patch.StoreName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "store name cannot be empty"})
	}
	if patch.Email != nil && !strings.Contains(*patch.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	return h.applyProfilePatch(c, patch)
}

func (h *Handler) applyProfilePatch(c echo.Context, patch model.ProfilePatch) error {
	m, err := h.state.UpdateProfile(c.Request().Context(), patch)
	switch {
	case errors.Is(err, model.ErrInvalidColor):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, state.ErrNotRegistered):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not registered"})
	case err != nil:
		return internalError(c, "failed to update profile", err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListPalettes returns the curated brand palettes, optionally filtered by ?category=
func (h *Handler) ListPalettes(c echo.Context) error {
	category := c.QueryParam("category")
	if !model.ValidPaletteCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown palette category"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"categories": model.PaletteCategories,
		"palettes":   model.PalettesIn(category),
	})
}

// ApplyPalette sets the three brand colors from a curated palette
func (h *Handler) ApplyPalette(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, ok := model.FindPalette(req.ID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "palette not found"})
	}
	return h.applyProfilePatch(c, p.Patch())
}

// UploadLogo hosts the uploaded logo and stores its URL on the profile
func (h *Handler) UploadLogo(c echo.Context) error {
	log := logger.FromEcho(c)

	fh, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "logo file is required"})
	}
	if fh.Size > maxLogoBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "logo must be at most 5MB"})
	}
	mimeType := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(mimeType, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "logo must be an image"})
	}

	f, err := fh.Open()
	if err != nil {
		return internalError(c, "failed to read logo", err)
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request().Context(), media.KindLogo, io.LimitReader(f, maxLogoBytes), mimeType)
	if err != nil {
		log.Error("Logo upload failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "logo upload failed"})
	}

	return h.applyProfilePatch(c, model.ProfilePatch{Logo: &url})
}

// Dashboard returns the dashboard summary
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := h.state.Now()
	m, _ := h.state.Profile(ctx)
	st := h.state.Status(ctx, now)

	summary := calendar.Dashboard(calendar.DashboardInput{
		Events:         h.state.Events(),
		Contents:       h.state.Contents(ctx),
		Profile:        m.MerchantProfile,
		LatestCampaign: h.state.LatestCampaignReport(ctx),
		Frozen:         st.Frozen,
		TrialRemaining: time.Duration(st.TrialRemaining) * time.Second,
		Now:            now,
	})
	return c.JSON(http.StatusOK, summary)
}

// Calendar returns the smart calendar grid for ?year=&month=, defaulting to the current month
func (h *Handler) Calendar(c echo.Context) error {
	now := h.state.Now()
	year, month := now.Year(), int(now.Month())

	if v := c.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		year = y
	}
	if v := c.QueryParam("month"); v != "" {
		mo, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
		}
		month = mo
	}

	view, err := calendar.Month(h.state.Events(), year, month)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, view)
}

// ListEvents returns the event catalogue and the upcoming events
func (h *Handler) ListEvents(c echo.Context) error {
	events := h.state.Events()
	return c.JSON(http.StatusOK, echo.Map{
		"events":   events,
		"upcoming": calendar.Upcoming(events, h.state.Now()),
	})
}

// Navigate switches the active view and preselects an event for the studio
func (h *Handler) Navigate(c echo.Context) error {
	var req struct {
		ActiveView         string  `json:"active_view"`
		PreselectedEventID *string `json:"preselected_event_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ActiveView != "" && !views[req.ActiveView] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown view"})
	}
	if req.PreselectedEventID != nil && *req.PreselectedEventID != "" {
		if _, ok := h.state.Event(*req.PreselectedEventID); !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
	}

	ctx := c.Request().Context()
	if req.PreselectedEventID != nil {
		h.state.SetPreselectedEvent(ctx, *req.PreselectedEventID)
	}
	if req.ActiveView != "" {
		h.state.SetActiveView(ctx, req.ActiveView)
	}

	view, pre := h.state.Navigation(ctx)
	return c.JSON(http.StatusOK, echo.Map{
		"active_view":          view,
		"preselected_event_id": pre,
	})
}

// ListContents returns generated content newest first, optionally filtered by ?type=
func (h *Handler) ListContents(c echo.Context) error {
	typ := model.ContentType(c.QueryParam("type"))
	contents := h.state.Contents(c.Request().Context())

	out := make([]model.GeneratedContent, 0, len(contents))
	for _, item := range contents {
		if typ == "" || item.Type == typ {
			out = append(out, item)
		}
	}
	return c.JSON(http.StatusOK, out)
}
