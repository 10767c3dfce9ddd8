package handler

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"smart-reminder/internal/analysis"
	"smart-reminder/internal/genai/genaitest"
	"smart-reminder/internal/state"
	"smart-reminder/internal/store"
	"smart-reminder/internal/studio"
	"smart-reminder/pkg/config"
	"smart-reminder/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "founder-pass"

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	t     *testing.T
	e     *echo.Echo
	state *state.State
	store *store.Memory
	ai    *genaitest.Fake
	keys  *genaitest.KeySelector
	jwt   *jwtutil.JWTUtil
	clock *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem := store.NewMemory()
	clk := &clock{t: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)}
	st := state.New(mem, state.Options{MerchantID: "main_merchant_store", Now: clk.Now})
	require.NoError(t, st.Load(context.Background()))

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	ai := &genaitest.Fake{}
	keys := &genaitest.KeySelector{}
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	e := echo.New()
	New(Deps{
		State:    st,
		Store:    mem,
		Studio:   studio.NewService(st, ai, keys, nil, nil),
		Analysis: analysis.NewService(st, ai, keys),
		JWT:      jwt,
		Admin:    config.AdminConfig{Username: "founder", PasswordHash: string(hash)},
	}).Register(e)

	return &harness{t: t, e: e, state: st, store: mem, ai: ai, keys: keys, jwt: jwt, clock: clk}
}

func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var r *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(raw))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, r)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h *harness) register() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/register", echo.Map{
		"store_name":    "Date Palace",
		"business_type": "food",
		"email":         "owner@datepalace.sa",
		"password":      "s3cret!",
		"platforms":     []string{"Instagram"},
	}, "")
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(h.t, rec)["token"].(string)
}

func (h *harness) adminToken() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/admin/login", echo.Map{"username": "founder", "password": adminPassword}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(h.t, rec)["token"].(string)
}

func TestHealthAndLanding(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/landing", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 24.0, body["trial_duration_hours"])
	plans := body["plans"].(map[string]any)
	assert.Equal(t, 299.0, plans["pro"])
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/auth/login", echo.Map{"email": "owner@datepalace.sa", "password": "s3cret!"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/auth/register", echo.Map{"store_name": "x", "email": "bad", "password": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := h.register()
	rec = h.do(http.MethodPost, "/auth/register", echo.Map{"store_name": "Again", "email": "a@b.c", "password": "123456"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, "/me/status", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode(t, rec)
	assert.Equal(t, true, status["registered"])
	assert.Equal(t, "trial", status["subscription_status"])
	assert.Equal(t, 86400.0, status["trial_remaining_seconds"])

	rec = h.do(http.MethodPost, "/auth/login", echo.Map{"email": "owner@datepalace.sa", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = h.do(http.MethodPost, "/auth/login", echo.Map{"email": "owner@datepalace.sa", "password": "s3cret!"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	merchant := decode(t, rec)["merchant"].(map[string]any)
	assert.Equal(t, "Date Palace", merchant["store_name"])
	assert.NotContains(t, merchant, "password_hash")
}

func TestDemoLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/auth/login", echo.Map{"demo": true, "lang": "en"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	rec = h.do(http.MethodGet, "/contents", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var contents []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contents))
	assert.Len(t, contents, 2)

	rec = h.do(http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := h.state.Profile(state.WithDemo(context.Background(), true))
	assert.False(t, ok)
	_, ok = h.state.Profile(context.Background())
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/contents", nil, token).Code)
}

func (h *harness) demoToken() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/login", echo.Map{"demo": true, "lang": "en"}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(h.t, rec)["token"].(string)
}

func TestDemoLoginDoesNotHijackStoredSession(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	h.demoToken()

	rec := h.do(http.MethodGet, "/profile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Date Palace", decode(t, rec)["store_name"])

	rec = h.do(http.MethodPatch, "/profile", echo.Map{"store_name": "Renamed"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed", decode(t, rec)["store_name"])

	stored, err := h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.StoreName)
	assert.Equal(t, "owner@datepalace.sa", stored.Email)
}

func TestStaleDemoTokenCannotWriteStoredProfile(t *testing.T) {
	h := newHarness(t)
	h.register()
	demo := h.demoToken()

	rec := h.do(http.MethodPost, "/auth/login", echo.Map{"email": "owner@datepalace.sa", "password": "s3cret!"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode(t, rec)["token"].(string)

	rec = h.do(http.MethodPatch, "/profile", echo.Map{"store_name": "Hacked by demo"}, demo)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hacked by demo", decode(t, rec)["store_name"])

	stored, err := h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "Date Palace", stored.StoreName)
	rec = h.do(http.MethodGet, "/profile", nil, live)
	assert.Equal(t, "Date Palace", decode(t, rec)["store_name"])

	// once the demo session is gone its token reaches nothing
	h.state.LoginAsDemo("en")
	require.NoError(t, h.state.Logout(state.WithDemo(context.Background(), true)))
	rec = h.do(http.MethodPatch, "/profile", echo.Map{"store_name": "Hacked again"}, demo)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	stored, err = h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "Date Palace", stored.StoreName)
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	token := h.register()

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/dashboard", nil, token).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/auth/logout", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/dashboard", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPatch, "/profile", echo.Map{"store_name": "x"}, token).Code)

	rec := h.do(http.MethodPost, "/auth/login", echo.Map{"email": "owner@datepalace.sa", "password": "s3cret!"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode(t, rec)["token"].(string)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/dashboard", nil, fresh).Code)
}

func TestRouteAuthorization(t *testing.T) {
	h := newHarness(t)
	merchant := h.register()
	admin := h.adminToken()

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/dashboard", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/dashboard", nil, admin).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/admin/stats", nil, merchant).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/admin/stats", nil, admin).Code)

	rec := h.do(http.MethodPost, "/admin/login", echo.Map{"username": "founder", "password": "guess"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFrozenMerchantIsBlockedUntilActivated(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	admin := h.adminToken()

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/dashboard", nil, token).Code)

	h.clock.Advance(24 * time.Hour)
	rec := h.do(http.MethodGet, "/dashboard", nil, token)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "subscription_frozen", decode(t, rec)["code"])

	rec = h.do(http.MethodGet, "/me/status", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["frozen"])

	rec = h.do(http.MethodGet, "/admin/merchants/expired", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["total"])

	rec = h.do(http.MethodPut, "/admin/merchants/main_merchant_store/status", echo.Map{"status": "active", "plan": "pro"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/dashboard", nil, token).Code)

	rec = h.do(http.MethodGet, "/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, 299.0, stats["revenue"])
	assert.Equal(t, 100.0, stats["active_percent"])

	rec = h.do(http.MethodPut, "/admin/merchants/ghost/status", echo.Map{"status": "active"}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(http.MethodPut, "/admin/merchants/main_merchant_store/status", echo.Map{"status": "paused"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaintenanceMode(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	admin := h.adminToken()

	rec := h.do(http.MethodPut, "/admin/settings", echo.Map{"global_maintenance": true}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodGet, "/dashboard", nil, token).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/admin/settings", nil, admin).Code)
	assert.Equal(t, true, decode(t, h.do(http.MethodGet, "/landing", nil, ""))["maintenance"])
}

func TestStudioGenerate(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	h.ai.Text = "Ramadan Kareem from Date Palace #Ramadan"

	rec := h.do(http.MethodPost, "/studio/generate", echo.Map{
		"modality":     "copy",
		"custom_event": "Ramadan Nights",
		"tone":         "friendly",
		"language":     "en",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ramadan Kareem from Date Palace #Ramadan", decode(t, rec)["text"])
	assert.Contains(t, h.ai.Texts[0].Prompt, "Event/Occasion: Ramadan Nights")

	rec = h.do(http.MethodGet, "/contents?type=copy", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var contents []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contents))
	assert.Len(t, contents, 1)

	rec = h.do(http.MethodPost, "/studio/generate", echo.Map{"modality": "hologram"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/studio/generate", echo.Map{"modality": "copy", "custom_event": "Sale", "tone": "sarcastic"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown tone")
	assert.Len(t, h.ai.Texts, 1)
}

func TestStudioProviderErrors(t *testing.T) {
	h := newHarness(t)
	token := h.register()

	h.ai.Err = errors.New("Requested entity was not found.")
	rec := h.do(http.MethodPost, "/studio/generate", echo.Map{"modality": "copy", "custom_event": "Sale"}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "api_key_reselect_required", decode(t, rec)["code"])
	assert.Equal(t, 1, h.keys.Count())

	h.ai.Err = errors.New("backend unavailable")
	rec = h.do(http.MethodPost, "/studio/generate", echo.Map{"modality": "image", "custom_event": "Sale"}, token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "generation failed", decode(t, rec)["error"])
}

func TestVoiceoverDownload(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	pcm := make([]byte, 8)
	binary.LittleEndian.PutUint16(pcm[2:], 1000)
	h.ai.PCM = pcm

	rec := h.do(http.MethodPost, "/studio/voiceover", echo.Map{"custom_event": "Eid", "voice": "Puck"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "AADoAwAAAAA=", body["audio_base64"])
	assert.Equal(t, 24000.0, body["sample_rate"])

	rec = h.do(http.MethodPost, "/studio/voiceover?format=wav", echo.Map{"custom_event": "Eid"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "voiceover-Kore-")
	assert.Equal(t, "RIFF", rec.Body.String()[:4])
	assert.Equal(t, 44+len(pcm), rec.Body.Len())
}

func TestCampaignAnalysisMultipart(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	h.ai.JSON = map[string]any{"metrics": map[string]any{"roas": 3.2}, "next_steps": []string{"Retarget cart abandoners"}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("platform", "TikTok"))
	require.NoError(t, mw.WriteField("lang", "en"))
	fw, err := mw.CreateFormFile("file", "campaign.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("day,spend\n1,100\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/analysis/campaign", &buf)
	r.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, h.ai.JSONs, 1)
	require.Len(t, h.ai.JSONs[0].Attachments, 1)
	assert.Equal(t, "day,spend\n1,100\n", string(h.ai.JSONs[0].Attachments[0].Data))

	rec = h.do(http.MethodGet, "/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode(t, rec)["latest_campaign"].(map[string]any)
	assert.Equal(t, "TikTok", latest["platform"])

	rec = h.do(http.MethodPost, "/analysis/campaign", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreAudit(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	h.ai.JSON = map[string]any{"seo": map[string]any{"indexing": 91}}

	rec := h.do(http.MethodPost, "/analysis/audit", echo.Map{"url": "datepalace.sa"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "https://datepalace.sa", body["url"])
	assert.Equal(t, 91.0, body["seo"].(map[string]any)["indexing"])

	rec = h.do(http.MethodPost, "/analysis/audit", echo.Map{"url": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigationAndCalendar(t *testing.T) {
	h := newHarness(t)
	token := h.register()
	eventID := h.state.Events()[0].ID

	rec := h.do(http.MethodPut, "/navigation", echo.Map{"active_view": "studio", "preselected_event_id": eventID}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, eventID, decode(t, rec)["preselected_event_id"])

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/navigation", echo.Map{"active_view": "nowhere"}, token).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/navigation", echo.Map{"preselected_event_id": "missing"}, token).Code)

	rec = h.do(http.MethodGet, "/calendar?year=2026&month=2", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 28.0, decode(t, rec)["days_in_month"])
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/calendar?month=13", nil, token).Code)
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t)
	token := h.register()

	rec := h.do(http.MethodPatch, "/profile", echo.Map{"primary_color": "#111111", "platforms": []string{"TikTok"}}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "#111111", stored.PrimaryColor)
	assert.Equal(t, "Date Palace", stored.StoreName)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPatch, "/profile", echo.Map{"store_name": " "}, token).Code)

	for _, bad := range []string{"red", "#fff", "6366f1", "#12345g"} {
		rec = h.do(http.MethodPatch, "/profile", echo.Map{"secondary_color1": bad}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	stored, err = h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "#a855f7", stored.SecondaryColor1)
}

func TestProfilePalettes(t *testing.T) {
	h := newHarness(t)
	token := h.register()

	rec := h.do(http.MethodGet, "/profile/palettes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["palettes"], 12)

	rec = h.do(http.MethodGet, "/profile/palettes?category=luxury", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	palettes := decode(t, rec)["palettes"].([]any)
	require.Len(t, palettes, 3)
	for _, p := range palettes {
		assert.Equal(t, "luxury", p.(map[string]any)["category"])
	}

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/profile/palettes?category=neon", nil, token).Code)

	rec = h.do(http.MethodPost, "/profile/palette", echo.Map{"id": "sea-breeze"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := h.store.GetProfile(context.Background(), "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, []string{"#0891B2", "#22D3EE", "#ECFEFF"}, stored.BrandColors())

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/profile/palette", echo.Map{"id": "nope"}, token).Code)
}

func TestAdminExportCSV(t *testing.T) {
	h := newHarness(t)
	h.register()
	admin := h.adminToken()

	rec := h.do(http.MethodGet, "/admin/merchants/export.csv", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "subscription_report_2026-02-10.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Store Name,Email,Phone,Business Type,Plan,Status,Created At,Revenue (SAR)", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "Date Palace,owner@datepalace.sa"))

	rec = h.do(http.MethodGet, "/admin/merchants/expired/export.csv", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "expired_trials_report_2026-02-10.csv")
	assert.Equal(t, "Store Name,Email,Phone,Created At", strings.TrimSpace(rec.Body.String()))

	rec = h.do(http.MethodGet, "/admin/merchants?search=palace&field=food", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["total"])
	rec = h.do(http.MethodGet, "/admin/merchants?field=fashion", nil, admin)
	assert.Equal(t, 0.0, decode(t, rec)["total"])
}

func TestAdminEvents(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	rec := h.do(http.MethodPost, "/admin/events", echo.Map{"title": echo.Map{"en": "Summer Sale"}, "date": "2026-07-01"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)
	_, ok := h.state.Event(id)
	assert.True(t, ok)

	assert.Equal(t, http.StatusBadRequest,
		h.do(http.MethodPost, "/admin/events", echo.Map{"title": echo.Map{"en": "Bad"}, "date": "July 1"}, admin).Code)

	rec = h.do(http.MethodPut, "/admin/events/"+id, echo.Map{"title": echo.Map{"en": "Mid-Summer Sale"}, "date": "2026-07-15", "priority": "high"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "high", decode(t, rec)["priority"])

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/events/"+id, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/admin/events/"+id, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound,
		h.do(http.MethodPut, "/admin/events/"+id, echo.Map{"title": echo.Map{"en": "x"}, "date": "2026-07-15"}, admin).Code)
}

func TestDiscountsAndQuote(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	rec := h.do(http.MethodPost, "/admin/discounts", echo.Map{"code": " ramadan20 ", "type": "percentage", "value": 20}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "RAMADAN20", created["code"])
	assert.Equal(t, true, created["is_active"])

	assert.Equal(t, http.StatusConflict,
		h.do(http.MethodPost, "/admin/discounts", echo.Map{"code": "RAMADAN20", "type": "fixed", "value": 5}, admin).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(http.MethodPost, "/admin/discounts", echo.Map{"code": "BIG", "type": "percentage", "value": 150}, admin).Code)

	rec = h.do(http.MethodGet, "/pricing/quote?plan=pro&code=ramadan20", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode(t, rec)
	assert.Equal(t, 299.0, quote["price"])
	assert.Equal(t, 239.2, quote["final_price"])

	rec = h.do(http.MethodPut, "/admin/pricing", echo.Map{"basic": 49, "pro": 199, "enterprise": 799}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodGet, "/pricing/quote?plan=pro", nil, "")
	assert.Equal(t, 199.0, decode(t, rec)["final_price"])

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/pricing/quote?plan=gold", nil, "").Code)

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/discounts/"+created["id"].(string), nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/pricing/quote?plan=pro&code=ramadan20", nil, "").Code)
}

func TestDeleteMerchant(t *testing.T) {
	h := newHarness(t)
	h.register()
	admin := h.adminToken()

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/merchants/main_merchant_store", nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/admin/merchants/main_merchant_store", nil, admin).Code)
	_, ok := h.state.Profile(context.Background())
	assert.False(t, ok)
}
