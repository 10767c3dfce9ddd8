package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"smart-reminder/pkg/config"
	"smart-reminder/pkg/logger"

	"go.uber.org/zap"
	googleai "google.golang.org/genai"
)

const (
	videoResolution = "720p"
	jsonMIMEType    = "application/json"
)

// Gemini implements Client on the Gemini API
type Gemini struct {
	cfg config.GenAIConfig

	mu     sync.RWMutex
	client *googleai.Client
}

// NewGemini builds the client. A missing key is not an error: calls fail with
// ErrNotConfigured until SelectKey finds one.
func NewGemini(ctx context.Context, cfg config.GenAIConfig) (*Gemini, error) {
	g := &Gemini{cfg: cfg}
	if cfg.APIKey == "" {
		logger.FromContext(ctx).Warn("No generation API key configured", zap.String("env", cfg.APIKeyEnv))
		return g, nil
	}
	client, err := newClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

func newClient(ctx context.Context, apiKey string) (*googleai.Client, error) {
	client, err := googleai.NewClient(ctx, &googleai.ClientConfig{
		APIKey:  apiKey,
		Backend: googleai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// SelectKey re-reads the API key from the environment and rebuilds the client
func (g *Gemini) SelectKey(ctx context.Context) error {
	key := os.Getenv(g.cfg.APIKeyEnv)
	if key == "" {
		return fmt.Errorf("%w: %s is empty", ErrNotConfigured, g.cfg.APIKeyEnv)
	}
	client, err := newClient(ctx, key)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.client = client
	g.cfg.APIKey = key
	g.mu.Unlock()

	logger.FromContext(ctx).Info("Generation API key re-selected", zap.String("env", g.cfg.APIKeyEnv))
	return nil
}

func (g *Gemini) current() (*googleai.Client, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.client == nil {
		return nil, ErrNotConfigured
	}
	return g.client, nil
}

func (g *Gemini) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	client, err := g.current()
	if err != nil {
		return "", err
	}

	var cfg *googleai.GenerateContentConfig
	if req.SystemInstruction != "" {
		cfg = &googleai.GenerateContentConfig{
			SystemInstruction: googleai.NewContentFromText(req.SystemInstruction, googleai.RoleUser),
		}
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.TextModel,
		[]*googleai.Content{googleai.NewContentFromText(req.Prompt, googleai.RoleUser)}, cfg)
	if err != nil {
		return "", ClassifyError(fmt.Errorf("generate text: %w", err))
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) GenerateJSON(ctx context.Context, req JSONRequest, out any) error {
	client, err := g.current()
	if err != nil {
		return err
	}

	parts := []*googleai.Part{googleai.NewPartFromText(req.Prompt)}
	for _, a := range req.Attachments {
		parts = append(parts, googleai.NewPartFromBytes(a.Data, a.MIMEType))
	}

	model := g.cfg.TextModel
	if req.Pro {
		model = g.cfg.ProModel
	}

	resp, err := client.Models.GenerateContent(ctx, model,
		[]*googleai.Content{googleai.NewContentFromParts(parts, googleai.RoleUser)},
		&googleai.GenerateContentConfig{
			ResponseMIMEType: jsonMIMEType,
			ResponseSchema:   req.Schema,
		})
	if err != nil {
		return ClassifyError(fmt.Errorf("generate json: %w", err))
	}

	text := resp.Text()
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode json response: %w", err)
	}
	return nil
}

func (g *Gemini) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	client, err := g.current()
	if err != nil {
		return Image{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.ImageModel,
		[]*googleai.Content{googleai.NewContentFromText(req.Prompt, googleai.RoleUser)},
		&googleai.GenerateContentConfig{
			ImageConfig: &googleai.ImageConfig{AspectRatio: req.AspectRatio},
		})
	if err != nil {
		return Image{}, ClassifyError(fmt.Errorf("generate image: %w", err))
	}

	blob := firstInlineData(resp)
	if blob == nil {
		return Image{}, ErrEmptyResponse
	}
	return Image{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

func (g *Gemini) GenerateVideo(ctx context.Context, req VideoRequest) (Video, error) {
	client, err := g.current()
	if err != nil {
		return Video{}, err
	}
	log := logger.FromContext(ctx)

	op, err := client.Models.GenerateVideos(ctx, g.cfg.VideoModel, req.Prompt, nil,
		&googleai.GenerateVideosConfig{
			NumberOfVideos: 1,
			Resolution:     videoResolution,
			AspectRatio:    req.AspectRatio,
		})
	if err != nil {
		return Video{}, ClassifyError(fmt.Errorf("generate video: %w", err))
	}

	for !op.Done {
		log.Debug("Waiting for video operation", zap.String("operation", op.Name))
		if err := sleep(ctx, g.cfg.VideoPollInterval); err != nil {
			return Video{}, err
		}
		op, err = client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return Video{}, ClassifyError(fmt.Errorf("poll video operation: %w", err))
		}
	}

	if op.Error != nil {
		return Video{}, ClassifyError(fmt.Errorf("video operation failed: %v", op.Error["message"]))
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return Video{}, ErrEmptyResponse
	}

	generated := op.Response.GeneratedVideos[0]
	out := Video{
		URI:      generated.Video.URI,
		Data:     generated.Video.VideoBytes,
		MIMEType: generated.Video.MIMEType,
	}
	if len(out.Data) == 0 && out.URI != "" {
		data, err := client.Files.Download(ctx, googleai.NewDownloadURIFromGeneratedVideo(generated), nil)
		if err != nil {
			return Video{}, ClassifyError(fmt.Errorf("download video: %w", err))
		}
		out.Data = data
	}
	if out.MIMEType == "" {
		out.MIMEType = "video/mp4"
	}
	return out, nil
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	client, err := g.current()
	if err != nil {
		return nil, err
	}

	cfg := &googleai.GenerateContentConfig{
		ResponseModalities: []string{string(googleai.ModalityAudio)},
		SpeechConfig: &googleai.SpeechConfig{
			VoiceConfig: &googleai.VoiceConfig{
				PrebuiltVoiceConfig: &googleai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = googleai.NewContentFromText(req.SystemInstruction, googleai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.TTSModel,
		[]*googleai.Content{googleai.NewContentFromText(req.Script, googleai.RoleUser)}, cfg)
	if err != nil {
		return nil, ClassifyError(fmt.Errorf("synthesize speech: %w", err))
	}

	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	return blob.Data, nil
}

func firstInlineData(resp *googleai.GenerateContentResponse) *googleai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
