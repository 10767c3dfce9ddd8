package studio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"smart-reminder/internal/audio"
	"smart-reminder/internal/genai"
	"smart-reminder/internal/genai/genaitest"
	"smart-reminder/internal/model"
	"smart-reminder/internal/state"
	"smart-reminder/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudio(t *testing.T) (*Service, *state.State, *genaitest.Fake, *genaitest.KeySelector) {
	t.Helper()
	ctx := context.Background()
	st := state.New(store.NewMemory(), state.Options{MerchantID: "main_merchant_store"})
	require.NoError(t, st.Load(ctx))
	_, err := st.Register(ctx, state.RegisterInput{
		StoreName:    "Oud House",
		BusinessType: "perfumes",
		Email:        "hello@oudhouse.sa",
		Password:     "pw",
	})
	require.NoError(t, err)
	primary, s1, s2 := "#1e3a8a", "#fbbf24", "#f43f5e"
	_, err = st.UpdateProfile(ctx, model.ProfilePatch{PrimaryColor: &primary, SecondaryColor1: &s1, SecondaryColor2: &s2})
	require.NoError(t, err)

	fake := &genaitest.Fake{}
	keys := &genaitest.KeySelector{}
	return NewService(st, fake, keys, nil, nil), st, fake, keys
}

func pcm(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestResolveEventTitle(t *testing.T) {
	e := model.NewEvent("ramadan", model.Localized{Ar: "رمضان", En: "Ramadan"}, "2026-02-18", model.EventReligious, model.Localized{}, model.PriorityHigh)

	assert.Equal(t, "Grand Opening", ResolveEventTitle("Grand Opening", &e, "en"))
	assert.Equal(t, "Ramadan", ResolveEventTitle("   ", &e, "en"))
	assert.Equal(t, "رمضان", ResolveEventTitle("", &e, "ar"))
	assert.Equal(t, "", ResolveEventTitle("", nil, "en"))
}

func TestNormalizeAspectRatio(t *testing.T) {
	tests := []struct {
		modality, in, want string
	}{
		{ModalityVideo, AspectSquare, AspectPortrait},
		{ModalityVideo, AspectLandscape, AspectLandscape},
		{ModalityVideo, "", AspectPortrait},
		{ModalityImage, AspectSquare, AspectSquare},
		{ModalityImage, "4:3", AspectSquare},
		{ModalityImage, AspectPortrait, AspectPortrait},
	}
	for _, tt := range tests {
		t.Run(tt.modality+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAspectRatio(tt.modality, tt.in))
		})
	}
}

func TestIdentitySyncControlsColors(t *testing.T) {
	p := model.MerchantProfile{StoreName: "Oud House", BusinessType: "perfumes", PrimaryColor: "#1e3a8a", SecondaryColor1: "#fbbf24", SecondaryColor2: "#f43f5e"}

	synced := BrandFor(p, true)
	plain := BrandFor(p, false)

	for _, prompt := range []string{
		CopyPrompt(synced, "Eid", "luxury", "en"),
		ImagePrompt(synced, "Eid", "en"),
		VideoPrompt(synced, "Eid", "en"),
		VoiceInstruction(synced, true, "en"),
	} {
		assert.Contains(t, prompt, "#1e3a8a")
	}
	for _, prompt := range []string{
		CopyPrompt(plain, "Eid", "luxury", "en"),
		ImagePrompt(plain, "Eid", "en"),
		VideoPrompt(plain, "Eid", "en"),
		VoiceInstruction(plain, false, "en"),
	} {
		assert.NotContains(t, prompt, "#")
	}
	assert.Contains(t, ImagePrompt(plain, "Eid", "en"), "vibrant")
	assert.Equal(t, "My Store", BrandFor(model.MerchantProfile{}, true).StoreName)
}

func TestPromptLanguage(t *testing.T) {
	b := Brand{StoreName: "Oud House", BusinessType: "perfumes"}

	assert.Contains(t, CopyPrompt(b, "Eid", "friendly", "ar"), "Target Output Language: Arabic")
	assert.Contains(t, ImagePrompt(b, "Eid", "ar"), "Middle Eastern market")
	assert.Contains(t, VideoPrompt(b, "Eid", "en"), "English culture/language")
	assert.Contains(t, VoiceInstruction(b, false, "ar"), "in Arabic")
}

func TestVoiceoverScript(t *testing.T) {
	b := Brand{StoreName: "Oud House"}

	assert.Equal(t, "Custom words", VoiceoverScript("Custom words", b, "Eid", "en"))
	assert.Equal(t,
		"Welcome to Oud House. On the occasion of Eid, we offer you the strongest exclusive deals with quality that suits you. Don't miss out!",
		VoiceoverScript(" ", b, "Eid", "en"))
	ar := VoiceoverScript("", b, "العيد", "ar")
	assert.True(t, strings.HasPrefix(ar, "أهلاً بكم في Oud House"))
	assert.Contains(t, ar, "العيد")
}

func TestCustomEventTextWinsInPrompt(t *testing.T) {
	svc, st, fake, _ := newStudio(t)
	fake.Text = "Celebrate with us #OudHouse"
	event := st.Events()[0]
	title := event.Title.Data().En

	res, err := svc.Generate(context.Background(), Request{
		Modality:    ModalityCopy,
		EventID:     event.ID,
		CustomEvent: "Grand Opening Weekend",
		Language:    "en",
	})
	require.NoError(t, err)

	require.Len(t, fake.Texts, 1)
	prompt := fake.Texts[0].Prompt
	assert.Contains(t, prompt, "Grand Opening Weekend")
	assert.NotContains(t, prompt, title)
	assert.Equal(t, prompt, res.Prompt)
	assert.Equal(t, "Grand Opening Weekend", res.EventTitle)
}

func TestGenerateCopyRecordsContent(t *testing.T) {
	svc, st, fake, _ := newStudio(t)
	fake.Text = "Shop the Eid collection"
	event := st.Events()[0]

	res, err := svc.Generate(context.Background(), Request{Modality: ModalityCopy, EventID: event.ID, Tone: "luxury", IdentitySync: true})
	require.NoError(t, err)

	assert.Equal(t, "Shop the Eid collection", res.Text)
	assert.Equal(t, model.ContentCopy, res.Content.Type)
	assert.Equal(t, event.ID, res.Content.EventID)
	assert.Contains(t, fake.Texts[0].Prompt, "Tone: luxury")
	assert.Contains(t, fake.Texts[0].Prompt, "#1e3a8a")

	contents := st.Contents(context.Background())
	require.Len(t, contents, 1)
	assert.Equal(t, res.Content.ID, contents[0].ID)
	p, _ := st.Profile(context.Background())
	assert.Equal(t, 1, p.TotalGeneratedContent)
}

func TestGenerateImageAndVideo(t *testing.T) {
	svc, st, fake, _ := newStudio(t)
	fake.Image = genai.Image{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}
	fake.Video = genai.Video{URI: "https://provider/videos/1"}

	img, err := svc.Generate(context.Background(), Request{Modality: ModalityImage, CustomEvent: "Sale", AspectRatio: AspectLandscape})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVA=", img.URL)
	assert.Equal(t, AspectLandscape, fake.Images[0].AspectRatio)

	vid, err := svc.Generate(context.Background(), Request{Modality: ModalityVideo, CustomEvent: "Sale", AspectRatio: AspectSquare})
	require.NoError(t, err)
	assert.Equal(t, "https://provider/videos/1", vid.URL)
	assert.Equal(t, AspectPortrait, fake.Videos[0].AspectRatio)

	contents := st.Contents(context.Background())
	require.Len(t, contents, 2)
	assert.Equal(t, model.ContentVideo, contents[0].Type)
	assert.Equal(t, model.ContentImage, contents[1].Type)
}

func TestGenerateVoiceover(t *testing.T) {
	svc, st, fake, _ := newStudio(t)
	fake.PCM = pcm(0, 16384, -32768)

	res, err := svc.Generate(context.Background(), Request{
		Modality:     ModalityVoiceover,
		CustomEvent:  "Founding Day",
		Voice:        "Charon",
		Language:     "en",
		IdentitySync: true,
	})
	require.NoError(t, err)

	require.Len(t, fake.Speech, 1)
	assert.Equal(t, "Charon", fake.Speech[0].Voice)
	assert.Contains(t, fake.Speech[0].Script, "Welcome to Oud House")
	assert.Contains(t, fake.Speech[0].SystemInstruction, "You are the voice of Oud House")
	assert.Equal(t, fake.PCM, res.Audio)
	assert.InDelta(t, 3.0/24000, res.Duration, 1e-9)

	contents := st.Contents(context.Background())
	require.Len(t, contents, 1)
	assert.Equal(t, model.ContentCopy, contents[0].Type)
	assert.Equal(t, "Voiceover: Charon for Founding Day (en)", contents[0].Text)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	svc, _, fake, _ := newStudio(t)

	_, err := svc.Generate(context.Background(), Request{Modality: "hologram"})
	assert.ErrorIs(t, err, ErrUnknownModality)

	_, err = svc.Generate(context.Background(), Request{Modality: ModalityVoiceover, Voice: "Nobody"})
	assert.ErrorIs(t, err, ErrUnknownVoice)

	_, err = svc.Generate(context.Background(), Request{Modality: ModalityCopy, EventID: "missing"})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = svc.Generate(context.Background(), Request{Modality: ModalityCopy, Tone: "sarcastic"})
	assert.ErrorIs(t, err, ErrUnknownTone)

	fake.PCM = []byte{1, 2, 3}
	_, err = svc.Generate(context.Background(), Request{Modality: ModalityVoiceover})
	assert.ErrorIs(t, err, audio.ErrOddLength)
	assert.Equal(t, 1, fake.Calls())
}

func TestEntityNotFoundReselectsKey(t *testing.T) {
	svc, st, fake, keys := newStudio(t)
	fake.Err = errors.New("rpc error: Requested entity was not found.")

	_, err := svc.Generate(context.Background(), Request{Modality: ModalityCopy, CustomEvent: "Sale"})
	assert.ErrorIs(t, err, genai.ErrEntityNotFound)
	assert.Equal(t, 1, keys.Count())
	assert.Empty(t, st.Contents(context.Background()))

	fake.Err = fmt.Errorf("quota exceeded")
	_, err = svc.Generate(context.Background(), Request{Modality: ModalityCopy, CustomEvent: "Sale"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, genai.ErrEntityNotFound)
	assert.Equal(t, 1, keys.Count())
}

func TestViewSwitchDiscardsInFlightResult(t *testing.T) {
	svc, st, fake, _ := newStudio(t)
	fake.Text = "late result"
	fake.Block = make(chan struct{})
	st.SetActiveView(context.Background(), state.ViewStudio)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), Request{Modality: ModalityCopy, CustomEvent: "Sale"})
		done <- err
	}()

	require.Eventually(t, func() bool { return fake.Calls() == 1 }, time.Second, 5*time.Millisecond)
	st.SetActiveView(context.Background(), state.ViewCalendar)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, state.ErrStaleGeneration)
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not stop after view switch")
	}
	assert.Empty(t, st.Contents(context.Background()))
}
