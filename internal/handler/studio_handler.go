package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smart-reminder/internal/analysis"
	"smart-reminder/internal/audio"
	"smart-reminder/internal/genai"
	"smart-reminder/internal/state"
	"smart-reminder/internal/studio"
	"smart-reminder/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxCampaignFileBytes = 20 << 20

// generationError maps studio and analysis failures onto responses
func generationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, genai.ErrEntityNotFound):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "the AI provider key must be re-selected",
			"code":  "api_key_reselect_required",
		})
	case errors.Is(err, state.ErrStaleGeneration):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "generation was superseded",
			"code":  "generation_superseded",
		})
	case errors.Is(err, state.ErrNotRegistered):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "merchant not registered"})
	case errors.Is(err, studio.ErrUnknownModality),
		errors.Is(err, studio.ErrUnknownVoice),
		errors.Is(err, studio.ErrUnknownTone),
		errors.Is(err, studio.ErrUnknownEvent),
		errors.Is(err, analysis.ErrEmptyInput),
		errors.Is(err, analysis.ErrInvalidURL):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	logger.FromEcho(c).Error("Generation failed", zap.Error(err))
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "generation failed"})
}

func voiceoverBody(res studio.Result) echo.Map {
	return echo.Map{
		"modality":         res.Modality,
		"event_title":      res.EventTitle,
		"script":           res.Script,
		"duration_seconds": res.Duration,
		"sample_rate":      audio.SampleRate,
		"channels":         audio.Channels,
		"audio_base64":     base64.StdEncoding.EncodeToString(res.Audio),
		"content":          res.Content,
	}
}

// Generate runs one AI studio generation
func (h *Handler) Generate(c echo.Context) error {
	var req studio.Request
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Error("Failed to parse generation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	res, err := h.studio.Generate(c.Request().Context(), req)
	if err != nil {
		return generationError(c, err)
	}
	if res.Modality == studio.ModalityVoiceover {
		return c.JSON(http.StatusOK, voiceoverBody(res))
	}
	return c.JSON(http.StatusOK, res)
}

// Voiceover synthesizes a voiceover. ?format=wav downloads the audio instead of JSON.
func (h *Handler) Voiceover(c echo.Context) error {
	var req studio.Request
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Error("Failed to parse voiceover request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.Modality = studio.ModalityVoiceover

	res, err := h.studio.Generate(c.Request().Context(), req)
	if err != nil {
		return generationError(c, err)
	}

	if c.QueryParam("format") != "wav" {
		return c.JSON(http.StatusOK, voiceoverBody(res))
	}
	wav, err := audio.EncodeWAV(res.Audio, audio.SampleRate, audio.Channels)
	if err != nil {
		return internalError(c, "failed to package audio", err)
	}
	voice := req.Voice
	if voice == "" {
		voice = studio.DefaultVoice
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="voiceover-%s-%s.wav"`, voice, time.Now().Format("20060102-150405")))
	return c.Blob(http.StatusOK, "audio/wav", wav)
}

// AnalyzeCampaign analyses campaign data sent as a multipart form (platform, data, lang, file)
func (h *Handler) AnalyzeCampaign(c echo.Context) error {
	in := analysis.CampaignInput{
		Platform: c.FormValue("platform"),
		Data:     c.FormValue("data"),
		Language: c.FormValue("lang"),
	}

	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxCampaignFileBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file must be at most 20MB"})
		}
		f, err := fh.Open()
		if err != nil {
			return internalError(c, "failed to read upload", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxCampaignFileBytes))
		f.Close()
		if err != nil {
			return internalError(c, "failed to read upload", err)
		}
		in.File = &genai.Attachment{Data: data, MIMEType: fh.Header.Get(echo.HeaderContentType)}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid upload"})
	}

	report, err := h.analysis.Campaign(c.Request().Context(), in)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// AuditStore audits a storefront URL
func (h *Handler) AuditStore(c echo.Context) error {
	var req struct {
		URL  string `json:"url"`
		Lang string `json:"lang"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	report, err := h.analysis.Audit(c.Request().Context(), req.URL, req.Lang)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
