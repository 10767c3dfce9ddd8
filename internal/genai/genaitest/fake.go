// Package genaitest provides a scripted genai.Client for tests.
package genaitest

import (
	"context"
	"encoding/json"
	"sync"

	"smart-reminder/internal/genai"
)

// Fake returns canned responses and records every request it receives.
// A non-nil Err fails every call. Block, when set, makes calls wait until it is closed or ctx ends.
type Fake struct {
	Text  string
	JSON  any
	Image genai.Image
	Video genai.Video
	PCM   []byte
	Err   error
	Block chan struct{}

	mu     sync.Mutex
	Texts  []genai.TextRequest
	JSONs  []genai.JSONRequest
	Images []genai.ImageRequest
	Videos []genai.VideoRequest
	Speech []genai.SpeechRequest
}

var _ genai.Client = (*Fake)(nil)

func (f *Fake) wait(ctx context.Context) error {
	if f.Block == nil {
		return nil
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fake) GenerateText(ctx context.Context, req genai.TextRequest) (string, error) {
	f.mu.Lock()
	f.Texts = append(f.Texts, req)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.Text, f.Err
}

func (f *Fake) GenerateJSON(ctx context.Context, req genai.JSONRequest, out any) error {
	f.mu.Lock()
	f.JSONs = append(f.JSONs, req)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return err
	}
	if f.Err != nil {
		return f.Err
	}
	raw, err := json.Marshal(f.JSON)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *Fake) GenerateImage(ctx context.Context, req genai.ImageRequest) (genai.Image, error) {
	f.mu.Lock()
	f.Images = append(f.Images, req)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return genai.Image{}, err
	}
	return f.Image, f.Err
}

func (f *Fake) GenerateVideo(ctx context.Context, req genai.VideoRequest) (genai.Video, error) {
	f.mu.Lock()
	f.Videos = append(f.Videos, req)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return genai.Video{}, err
	}
	return f.Video, f.Err
}

func (f *Fake) SynthesizeSpeech(ctx context.Context, req genai.SpeechRequest) ([]byte, error) {
	f.mu.Lock()
	f.Speech = append(f.Speech, req)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.PCM, f.Err
}

// Calls is the total number of requests received
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Texts) + len(f.JSONs) + len(f.Images) + len(f.Videos) + len(f.Speech)
}

// KeySelector counts re-selections
type KeySelector struct {
	mu    sync.Mutex
	count int
}

func (k *KeySelector) SelectKey(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.count++
	return nil
}

// Count is the number of SelectKey calls
func (k *KeySelector) Count() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.count
}
