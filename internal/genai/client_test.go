package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smart-reminder/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	googleai "google.golang.org/genai"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"api error", fmt.Errorf("generate: %w", googleai.APIError{Code: 404, Message: "Requested entity was not found."}), true},
		{"plain message", errors.New("rpc: Requested entity was not found"), true},
		{"other api error", googleai.APIError{Code: 500, Message: "internal"}, false},
		{"quota", errors.New("quota exceeded"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			assert.Equal(t, tt.notFound, errors.Is(got, ErrEntityNotFound))
			assert.Error(t, got)
		})
	}
	assert.NoError(t, ClassifyError(nil))
}

func TestImageDataURI(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,AQID", Image{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"}.DataURI())
	assert.Equal(t, "data:image/png;base64,", Image{}.DataURI())
}

func TestGeminiWithoutKey(t *testing.T) {
	ctx := context.Background()
	t.Setenv("STUDIO_TEST_KEY", "")
	g, err := NewGemini(ctx, config.GenAIConfig{APIKeyEnv: "STUDIO_TEST_KEY"})
	require.NoError(t, err)

	_, err = g.GenerateText(ctx, TextRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = g.SynthesizeSpeech(ctx, SpeechRequest{Script: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, g.SelectKey(ctx), ErrNotConfigured)

	t.Setenv("STUDIO_TEST_KEY", "fresh-key")
	require.NoError(t, g.SelectKey(ctx))
	_, err = g.current()
	assert.NoError(t, err)
}

func TestSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}

func TestSchemasRequireTopLevelFields(t *testing.T) {
	assert.ElementsMatch(t, []string{"metrics", "insights", "next_steps"}, CampaignReportSchema().Required)
	audit := StoreAuditSchema()
	assert.ElementsMatch(t, []string{"performance", "seo", "ux", "recommendations"}, audit.Required)
	assert.Equal(t, 100.0, *audit.Properties["seo"].Properties["indexing"].Maximum)
}
