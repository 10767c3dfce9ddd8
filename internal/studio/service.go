// Package studio assembles generation requests for the AI studio and the voiceover studio,
// runs them against the generation client and records what was produced.
package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"smart-reminder/internal/audio"
	"smart-reminder/internal/events"
	"smart-reminder/internal/genai"
	"smart-reminder/internal/media"
	"smart-reminder/internal/model"
	"smart-reminder/internal/state"
	"smart-reminder/pkg/logger"
	"smart-reminder/prometheus"

	"go.uber.org/zap"
)

var (
	ErrUnknownModality = errors.New("unknown modality")
	ErrUnknownEvent    = errors.New("unknown event")
	ErrUnknownVoice    = errors.New("unknown voice")
	ErrUnknownTone     = errors.New("unknown tone")
)

// Request is one studio submission
type Request struct {
	Modality     string `json:"modality"`
	EventID      string `json:"event_id"`
	CustomEvent  string `json:"custom_event"`
	Tone         string `json:"tone"`
	Language     string `json:"language"`
	IdentitySync bool   `json:"identity_sync"`
	AspectRatio  string `json:"aspect_ratio"`
	Script       string `json:"script"`
	Voice        string `json:"voice"`
}

// Result is what a generation produced
type Result struct {
	Modality    string                 `json:"modality"`
	EventTitle  string                 `json:"event_title"`
	AspectRatio string                 `json:"aspect_ratio,omitempty"`
	Text        string                 `json:"text,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Script      string                 `json:"script,omitempty"`
	Duration    float64                `json:"duration_seconds,omitempty"`
	Content     model.GeneratedContent `json:"content"`

	// Prompt is the assembled prompt or speech script sent to the provider
	Prompt string `json:"-"`
	// Audio is the raw voiceover PCM
	Audio []byte `json:"-"`
}

// Service runs studio generations for the active merchant
type Service struct {
	state     *state.State
	ai        genai.Client
	keys      genai.KeySelector
	uploader  media.Uploader
	publisher events.Publisher
}

// NewService wires the studio. keys may be nil when the client cannot re-select its key.
func NewService(st *state.State, ai genai.Client, keys genai.KeySelector, uploader media.Uploader, publisher events.Publisher) *Service {
	if uploader == nil {
		uploader = media.Passthrough{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{state: st, ai: ai, keys: keys, uploader: uploader, publisher: publisher}
}

// prepared is a request resolved against the current profile and catalogue
type prepared struct {
	req   Request
	brand Brand
	event string
}

func (s *Service) prepare(ctx context.Context, req Request) (prepared, error) {
	switch req.Modality {
	case ModalityCopy, ModalityImage, ModalityVideo, ModalityVoiceover:
	default:
		return prepared{}, fmt.Errorf("%w: %q", ErrUnknownModality, req.Modality)
	}
	if req.Language != LangArabic {
		req.Language = LangEnglish
	}
	if req.Tone == "" {
		req.Tone = DefaultTone
	}
	if !ValidTone(req.Tone) {
		return prepared{}, fmt.Errorf("%w: %q", ErrUnknownTone, req.Tone)
	}
	if req.Voice == "" {
		req.Voice = DefaultVoice
	}
	if req.Modality == ModalityVoiceover && !ValidVoice(req.Voice) {
		return prepared{}, fmt.Errorf("%w: %q", ErrUnknownVoice, req.Voice)
	}
	req.AspectRatio = NormalizeAspectRatio(req.Modality, req.AspectRatio)

	var event *model.MarketingEvent
	if req.EventID != "" {
		e, ok := s.state.Event(req.EventID)
		if !ok && req.CustomEvent == "" {
			return prepared{}, fmt.Errorf("%w: %s", ErrUnknownEvent, req.EventID)
		}
		if ok {
			event = &e
		}
	}

	profile, ok := s.state.Profile(ctx)
	if !ok {
		return prepared{}, state.ErrNotRegistered
	}
	return prepared{
		req:   req,
		brand: BrandFor(profile.MerchantProfile, req.IdentitySync),
		event: ResolveEventTitle(req.CustomEvent, event, req.Language),
	}, nil
}

// Generate runs one generation and records the result in the merchant's content history.
// A generation superseded while in flight returns state.ErrStaleGeneration and records nothing.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}
	log := logger.FromContext(ctx).With(
		zap.String("merchant_id", s.state.MerchantID()),
		zap.String("modality", p.req.Modality))

	view := state.ViewStudio
	if p.req.Modality == ModalityVoiceover {
		view = state.ViewVoiceover
	}
	ticket := s.state.BeginGeneration(ctx, view)
	defer s.state.EndGeneration(ticket)

	start := time.Now()
	res, content, err := s.run(ticket.Context(), p)
	prometheus.ObserveGeneration(p.req.Modality, start, err)
	if err != nil {
		err = genai.ClassifyError(err)
		if errors.Is(err, genai.ErrEntityNotFound) {
			s.reselectKey(ctx)
		}
		if ticket.Context().Err() != nil && ctx.Err() == nil {
			return Result{}, state.ErrStaleGeneration
		}
		log.Error("Generation failed", zap.Error(err))
		return Result{}, err
	}

	if err := s.state.CommitGeneration(ticket); err != nil {
		log.Info("Discarding superseded generation", zap.Uint64("ticket", ticket.ID))
		return Result{}, err
	}

	content.EventID = p.req.EventID
	saved, err := s.state.AddContent(ctx, content)
	if err != nil {
		prometheus.PersistenceFailureCounter.WithLabelValues("add_content").Inc()
		return Result{}, err
	}
	res.Content = saved

	events.PublishAsync(ctx, s.publisher, events.Event{
		Type:       events.ContentGenerated,
		MerchantID: s.state.MerchantID(),
		OccurredAt: saved.CreatedAt,
		Data: map[string]any{
			"content_id": saved.ID,
			"modality":   p.req.Modality,
			"event_id":   p.req.EventID,
			"language":   p.req.Language,
		},
	})
	log.Info("Content generated", zap.String("content_id", saved.ID))
	return res, nil
}

func (s *Service) run(ctx context.Context, p prepared) (Result, model.GeneratedContent, error) {
	res := Result{Modality: p.req.Modality, EventTitle: p.event}

	switch p.req.Modality {
	case ModalityCopy:
		res.Prompt = CopyPrompt(p.brand, p.event, p.req.Tone, p.req.Language)
		text, err := s.ai.GenerateText(ctx, genai.TextRequest{Prompt: res.Prompt})
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		res.Text = text
		return res, model.GeneratedContent{Type: model.ContentCopy, Text: text}, nil

	case ModalityImage:
		res.AspectRatio = p.req.AspectRatio
		res.Prompt = ImagePrompt(p.brand, p.event, p.req.Language)
		img, err := s.ai.GenerateImage(ctx, genai.ImageRequest{Prompt: res.Prompt, AspectRatio: res.AspectRatio})
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		url, err := s.uploader.Upload(ctx, media.KindImage, bytes.NewReader(img.Data), img.MIMEType)
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		res.URL = url
		return res, model.GeneratedContent{Type: model.ContentImage, URL: url}, nil

	case ModalityVideo:
		res.AspectRatio = p.req.AspectRatio
		res.Prompt = VideoPrompt(p.brand, p.event, p.req.Language)
		video, err := s.ai.GenerateVideo(ctx, genai.VideoRequest{Prompt: res.Prompt, AspectRatio: res.AspectRatio})
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		url := video.URI
		if len(video.Data) > 0 {
			if url, err = s.uploader.Upload(ctx, media.KindVideo, bytes.NewReader(video.Data), video.MIMEType); err != nil {
				return res, model.GeneratedContent{}, err
			}
		}
		if url == "" {
			return res, model.GeneratedContent{}, genai.ErrEmptyResponse
		}
		res.URL = url
		return res, model.GeneratedContent{Type: model.ContentVideo, URL: url}, nil

	default:
		res.Script = VoiceoverScript(p.req.Script, p.brand, p.event, p.req.Language)
		res.Prompt = res.Script
		pcm, err := s.ai.SynthesizeSpeech(ctx, genai.SpeechRequest{
			Script:            res.Script,
			Voice:             p.req.Voice,
			SystemInstruction: VoiceInstruction(p.brand, p.req.IdentitySync, p.req.Language),
		})
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		buf, err := audio.DecodePCM(pcm)
		if err != nil {
			return res, model.GeneratedContent{}, err
		}
		res.Audio = pcm
		res.Duration = buf.Duration().Seconds()
		return res, model.GeneratedContent{
			Type: model.ContentCopy,
			Text: VoiceoverLabel(p.req.Voice, p.event, p.req.Language),
		}, nil
	}
}

func (s *Service) reselectKey(ctx context.Context) {
	if s.keys == nil {
		return
	}
	if err := s.keys.SelectKey(ctx); err != nil {
		logger.FromContext(ctx).Warn("API key re-selection failed", zap.Error(err))
	}
}
