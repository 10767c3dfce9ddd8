// Package media hosts generated images, videos and logos.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"

	"smart-reminder/pkg/config"
	"smart-reminder/pkg/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Kind selects the folder and resource type of an upload
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindLogo  Kind = "logo"
)

func (k Kind) resourceType() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// Uploader stores a media payload and returns the URL it can be displayed from
type Uploader interface {
	Upload(ctx context.Context, kind Kind, r io.Reader, mimeType string) (string, error)
}

// New returns a Cloudinary uploader, or Passthrough when no URL is configured
func New(cfg config.CloudinaryConfig) (Uploader, error) {
	if cfg.URL == "" {
		return Passthrough{}, nil
	}
	return NewCloudinary(cfg)
}

// Cloudinary uploads to a Cloudinary account
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds the uploader from a cloudinary:// URL
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, kind Kind, r io.Reader, _ string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       path.Join(c.folder, string(kind)),
		ResourceType: kind.resourceType(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", kind, err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload %s: no url returned", kind)
	}

	logger.FromContext(ctx).Info("Media uploaded",
		zap.String("kind", string(kind)),
		zap.String("public_id", res.PublicID))
	return res.SecureURL, nil
}

// Passthrough keeps media inline as a data: URI
type Passthrough struct{}

func (Passthrough) Upload(_ context.Context, kind Kind, r io.Reader, mimeType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", kind, err)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
