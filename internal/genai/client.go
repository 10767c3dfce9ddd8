// Package genai is the generation client for copy, structured reports, images, video and speech.
package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	googleai "google.golang.org/genai"
)

var (
	// ErrEntityNotFound means the provider rejected the selected key or model; the key must be re-selected
	ErrEntityNotFound = errors.New("requested entity was not found")
	// ErrNotConfigured is returned while no API key is available
	ErrNotConfigured = errors.New("generation client not configured")
	// ErrEmptyResponse is returned when the provider answers without the expected payload
	ErrEmptyResponse = errors.New("empty generation response")
)

const entityNotFoundMessage = "Requested entity was not found"

// Attachment is an uploaded file sent inline with a prompt
type Attachment struct {
	Data     []byte
	MIMEType string
}

// TextRequest asks for free text
type TextRequest struct {
	Prompt            string
	SystemInstruction string
}

// JSONRequest asks for a document matching Schema. Pro selects the stronger model.
type JSONRequest struct {
	Prompt      string
	Attachments []Attachment
	Schema      *googleai.Schema
	Pro         bool
}

// ImageRequest asks for one image
type ImageRequest struct {
	Prompt      string
	AspectRatio string
}

// Image is generated image bytes
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURI renders the image as a data: URI
func (i Image) DataURI() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// VideoRequest asks for one video
type VideoRequest struct {
	Prompt      string
	AspectRatio string
}

// Video is a generated video. URI is the provider location, Data the downloaded bytes.
type Video struct {
	URI      string
	Data     []byte
	MIMEType string
}

// SpeechRequest asks for a voiceover
type SpeechRequest struct {
	Script            string
	Voice             string
	SystemInstruction string
}

// Client generates content in every supported modality
type Client interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	GenerateJSON(ctx context.Context, req JSONRequest, out any) error
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
	GenerateVideo(ctx context.Context, req VideoRequest) (Video, error)
	// SynthesizeSpeech returns raw 16-bit little-endian mono PCM at 24kHz
	SynthesizeSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// KeySelector re-selects the provider API key after ErrEntityNotFound
type KeySelector interface {
	SelectKey(ctx context.Context) error
}

// ClassifyError maps provider failures onto package errors
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEntityNotFound) {
		return err
	}
	var apiErr googleai.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, entityNotFoundMessage) {
		return fmt.Errorf("%w: %v", ErrEntityNotFound, err)
	}
	if strings.Contains(err.Error(), entityNotFoundMessage) {
		return fmt.Errorf("%w: %v", ErrEntityNotFound, err)
	}
	return err
}
