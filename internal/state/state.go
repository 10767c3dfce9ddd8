// Package state holds the process-wide application state: the stored merchant session, the
// demo showcase session, the event catalogue and the platform settings.
//
// Writes go to the persistence layer first; local state only changes once the write succeeds.
// Session-scoped calls pick the stored or the demo session from the context (see WithDemo).
package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"smart-reminder/internal/events"
	"smart-reminder/internal/model"
	"smart-reminder/internal/seed"
	"smart-reminder/internal/store"
	"smart-reminder/internal/subscription"
	"smart-reminder/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Views the merchant can navigate to
const (
	ViewDashboard   = "dashboard"
	ViewStudio      = "studio"
	ViewVoiceover   = "voiceover"
	ViewAnalysis    = "analysis"
	ViewAudit       = "audit"
	ViewCalendar    = "calendar"
	ViewProfile     = "profile"
	ViewDemoPreview = "demo_preview"
)

var (
	ErrNotRegistered      = errors.New("merchant not registered")
	ErrAlreadyRegistered  = errors.New("merchant already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Options configures a State
type Options struct {
	MerchantID string
	// TrialWindow applies when platform settings leave the trial duration unset
	TrialWindow time.Duration
	Publisher   events.Publisher
	Now         func() time.Time
}

// State is safe for concurrent use. mu is never held across persistence calls;
// profileMu serialises read-modify-write of the stored profile, store call included.
type State struct {
	st         store.Store
	pub        events.Publisher
	merchantID string
	window     time.Duration
	now        func() time.Time

	profileMu sync.Mutex

	mu            sync.Mutex
	live          *session
	demo          *session
	events        []model.MarketingEvent
	settings      model.PlatformSettings
	generationSeq uint64
}

// New creates an empty state over st. Call Load before serving.
func New(st store.Store, opts Options) *State {
	if opts.Publisher == nil {
		opts.Publisher = events.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TrialWindow <= 0 {
		opts.TrialWindow = subscription.DefaultTrialWindow
	}
	return &State{
		st:         st,
		pub:        opts.Publisher,
		merchantID: opts.MerchantID,
		window:     opts.TrialWindow,
		now:        opts.Now,
		live:       newSession(false),
		settings:   model.DefaultSettings(),
	}
}

// MerchantID is the id of the merchant this deployment serves
func (s *State) MerchantID() string { return s.merchantID }

// Now is the state's clock
func (s *State) Now() time.Time { return s.now() }

// Load reads the profile, events (seeding defaults when empty), contents and settings
func (s *State) Load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var profile *model.Merchant
	m, err := s.st.GetProfile(ctx, s.merchantID)
	switch {
	case err == nil:
		profile = &m
	case errors.Is(err, store.ErrNotFound):
		log.Info("No merchant profile stored yet", zap.String("merchant_id", s.merchantID))
	default:
		return fmt.Errorf("load profile: %w", err)
	}

	evts, err := seed.EnsureEvents(ctx, s.st)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	contents, err := s.st.ListContents(ctx, s.merchantID)
	if err != nil {
		return fmt.Errorf("load contents: %w", err)
	}

	settings, err := s.st.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	s.live.profile = profile
	s.live.contents = contents
	s.events = evts
	s.settings = settings
	s.demo = nil
	s.mu.Unlock()

	log.Info("Application state loaded",
		zap.Bool("has_profile", profile != nil),
		zap.Int("events", len(evts)),
		zap.Int("contents", len(contents)))
	return nil
}

// Status is the session summary shown to the merchant
type Status struct {
	Registered     bool   `json:"registered"`
	LoggedIn       bool   `json:"logged_in"`
	Demo           bool   `json:"demo"`
	Frozen         bool   `json:"frozen"`
	Subscription   string `json:"subscription_status,omitempty"`
	Plan           string `json:"plan_type,omitempty"`
	TrialRemaining int64  `json:"trial_remaining_seconds"`
	ActiveView     string `json:"active_view"`
	Preselected    string `json:"preselected_event_id,omitempty"`
	Maintenance    bool   `json:"maintenance"`
}

// TrialWindow is the trial length currently in force
func (s *State) TrialWindow() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trialWindowLocked()
}

func (s *State) trialWindowLocked() time.Duration {
	if s.settings.TrialDurationHours > 0 {
		return subscription.TrialWindow(s.settings)
	}
	return s.window
}

// Frozen evaluates the frozen rule against the session's profile at now.
// Callers hold an authenticated merchant session, so no logged-in check is applied here.
func (s *State) Frozen(ctx context.Context, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	if ss.profile == nil {
		return false
	}
	return subscription.ProfileFrozen(ss.profile.MerchantProfile, now, s.trialWindowLocked())
}

// Status reports the session summary at now
func (s *State) Status(ctx context.Context, now time.Time) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	st := Status{
		LoggedIn:    ss.loggedIn,
		Demo:        ss.demo,
		ActiveView:  ss.activeView,
		Preselected: ss.preselectedEventID,
		Maintenance: s.settings.GlobalMaintenance,
	}
	if ss.profile == nil {
		return st
	}
	window := s.trialWindowLocked()
	p := ss.profile.MerchantProfile
	st.Registered = true
	st.Frozen = subscription.ProfileFrozen(p, now, window)
	st.Subscription = string(p.SubscriptionStatus)
	st.Plan = string(p.PlanType)
	if p.SubscriptionStatus == model.StatusTrial {
		st.TrialRemaining = int64(subscription.TrialRemaining(p.TrialStartedAt, now, window) / time.Second)
	}
	return st
}

// Profile returns a copy of the session's profile
func (s *State) Profile(ctx context.Context) (model.Merchant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	if ss.profile == nil {
		return model.Merchant{}, false
	}
	return copyMerchant(*ss.profile), true
}

// Events returns the event catalogue sorted by date
func (s *State) Events() []model.MarketingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MarketingEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Event looks up one event by id
func (s *State) Event(id string) (model.MarketingEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.MarketingEvent{}, false
}

// Contents returns the session's generated content, newest first
func (s *State) Contents(ctx context.Context) []model.GeneratedContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	out := make([]model.GeneratedContent, len(ss.contents))
	copy(out, ss.contents)
	return out
}

// Settings returns the platform settings
func (s *State) Settings() model.PlatformSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// LatestCampaignReport returns the session's last campaign analysis, if any
func (s *State) LatestCampaignReport(ctx context.Context) *model.CampaignReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	if ss.latestCampaign == nil {
		return nil
	}
	r := *ss.latestCampaign
	return &r
}

// SetLatestCampaignReport stores the report shown on the dashboard
func (s *State) SetLatestCampaignReport(ctx context.Context, r model.CampaignReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionLocked(ctx).latestCampaign = &r
}

// Navigation returns the active view and preselected event id
func (s *State) Navigation(ctx context.Context) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	return ss.activeView, ss.preselectedEventID
}

// SetActiveView switches view. A generation started from another view is cancelled.
func (s *State) SetActiveView(ctx context.Context, view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	ss.activeView = view
	if ss.generation != nil && ss.generation.View != view {
		ss.cancelGeneration()
	}
}

// SetPreselectedEvent records the event the studio should open with
func (s *State) SetPreselectedEvent(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionLocked(ctx).preselectedEventID = id
}

// RegisterInput is the sign-up form
type RegisterInput struct {
	StoreName    string
	BusinessType string
	Country      string
	Phone        string
	Email        string
	Password     string
	Platforms    []string
}

// Register creates the merchant profile on a fresh trial and logs it in
func (s *State) Register(ctx context.Context, in RegisterInput) (model.Merchant, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	s.mu.Lock()
	exists := s.live.profile != nil
	s.mu.Unlock()
	if exists {
		return model.Merchant{}, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Merchant{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	profile := model.MerchantProfile{
		StoreName:       in.StoreName,
		BusinessType:    in.BusinessType,
		Country:         in.Country,
		Phone:           in.Phone,
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    string(hash),
		PrimaryColor:    "#6366f1",
		SecondaryColor1: "#a855f7",
		SecondaryColor2: "#f43f5e",
		Platforms:       in.Platforms,
		LastLoginAt:     &now,
	}
	m := model.Merchant{
		ID:              s.merchantID,
		MerchantProfile: subscription.StartTrial(profile, now),
		Status:          model.AccountActive,
		CreatedAt:       now,
	}

	if err := s.st.SaveProfile(ctx, m); err != nil {
		return model.Merchant{}, fmt.Errorf("register: %w", err)
	}

	s.mu.Lock()
	stored := copyMerchant(m)
	s.live.profile = &stored
	s.live.loggedIn = true
	s.live.contents = nil
	s.mu.Unlock()

	events.PublishAsync(ctx, s.pub, events.Event{
		Type:       events.MerchantRegistered,
		MerchantID: m.ID,
		OccurredAt: now,
		Data:       map[string]any{"business_type": m.BusinessType},
	})
	return copyMerchant(m), nil
}

// Login checks the merchant credential and records the login time
func (s *State) Login(ctx context.Context, email, password string) (model.Merchant, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	s.mu.Lock()
	if s.live.profile == nil {
		s.mu.Unlock()
		return model.Merchant{}, ErrNotRegistered
	}
	current := copyMerchant(*s.live.profile)
	s.mu.Unlock()

	if !strings.EqualFold(strings.TrimSpace(email), current.Email) ||
		bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(password)) != nil {
		return model.Merchant{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	current.LastLoginAt = &now
	if err := s.st.SaveProfile(ctx, current); err != nil {
		return model.Merchant{}, fmt.Errorf("record login: %w", err)
	}

	s.mu.Lock()
	stored := copyMerchant(current)
	s.live.profile = &stored
	s.live.loggedIn = true
	s.mu.Unlock()
	return current, nil
}

// LoginAsDemo opens a fresh showcase session with sample content. The stored merchant
// session is left untouched and nothing is persisted.
func (s *State) LoginAsDemo(lang string) model.Merchant {
	now := s.now().UTC()
	m := demoMerchant(s.merchantID, lang, now)

	ss := newSession(true)
	ss.profile = &m
	ss.contents = demoContents(s.merchantID, now)
	ss.loggedIn = true
	ss.activeView = ViewDemoPreview

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.demo != nil {
		s.demo.cancelGeneration()
	}
	s.demo = ss
	return copyMerchant(m)
}

// Logout ends the session ctx belongs to. Leaving the demo discards the showcase session.
func (s *State) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(ctx)
	ss.cancelGeneration()
	if ss.demo {
		if s.demo == ss {
			s.demo = nil
		}
		return nil
	}
	ss.loggedIn = false
	ss.activeView = ViewDashboard
	ss.preselectedEventID = ""
	return nil
}

// UpdateProfile merges patch into the session's profile. Only the stored session is persisted.
func (s *State) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.Merchant, error) {
	if err := patch.Validate(); err != nil {
		return model.Merchant{}, err
	}

	if DemoFromContext(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
		ss := s.sessionLocked(ctx)
		if ss.profile == nil {
			return model.Merchant{}, ErrNotRegistered
		}
		ss.profile.MerchantProfile = patch.Apply(ss.profile.MerchantProfile)
		return copyMerchant(*ss.profile), nil
	}

	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	s.mu.Lock()
	if s.live.profile == nil {
		s.mu.Unlock()
		return model.Merchant{}, ErrNotRegistered
	}
	next := copyMerchant(*s.live.profile)
	s.mu.Unlock()

	next.MerchantProfile = patch.Apply(next.MerchantProfile)
	if err := s.st.SaveProfile(ctx, next); err != nil {
		return model.Merchant{}, fmt.Errorf("update profile: %w", err)
	}

	s.mu.Lock()
	stored := copyMerchant(next)
	s.live.profile = &stored
	s.mu.Unlock()
	return next, nil
}

// AddContent appends a generated item to the session and bumps the usage counter
func (s *State) AddContent(ctx context.Context, c model.GeneratedContent) (model.GeneratedContent, error) {
	if c.ID == "" {
		c.ID = model.NewID("")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	c.MerchantID = s.merchantID

	if DemoFromContext(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
		ss := s.sessionLocked(ctx)
		ss.contents = append([]model.GeneratedContent{c}, ss.contents...)
		if ss.profile != nil {
			ss.profile.TotalGeneratedContent++
		}
		return c, nil
	}

	if err := s.st.SaveContent(ctx, c); err != nil {
		return model.GeneratedContent{}, fmt.Errorf("add content: %w", err)
	}

	s.mu.Lock()
	s.live.contents = append([]model.GeneratedContent{c}, s.live.contents...)
	s.mu.Unlock()

	s.bumpUsage(ctx)
	return c, nil
}

// bumpUsage increments the stored usage counter. A failed write leaves both copies unchanged.
func (s *State) bumpUsage(ctx context.Context) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	s.mu.Lock()
	if s.live.profile == nil {
		s.mu.Unlock()
		return
	}
	next := copyMerchant(*s.live.profile)
	s.mu.Unlock()

	next.TotalGeneratedContent++
	if err := s.st.SaveProfile(ctx, next); err != nil {
		logger.FromContext(ctx).Warn("Failed to update usage counter",
			zap.String("merchant_id", s.merchantID), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.live.profile = &next
	s.mu.Unlock()
}

// AddEvent stores a new event
func (s *State) AddEvent(ctx context.Context, e model.MarketingEvent) (model.MarketingEvent, error) {
	if e.ID == "" {
		e.ID = model.NewID("ev_")
	}
	if err := s.st.SaveEvent(ctx, e); err != nil {
		return model.MarketingEvent{}, fmt.Errorf("add event: %w", err)
	}

	s.mu.Lock()
	s.events = sortEvents(append(s.events, e))
	s.mu.Unlock()
	return e, nil
}

// UpdateEvent replaces an existing event
func (s *State) UpdateEvent(ctx context.Context, e model.MarketingEvent) (model.MarketingEvent, error) {
	if _, ok := s.Event(e.ID); !ok {
		return model.MarketingEvent{}, fmt.Errorf("update event %s: %w", e.ID, store.ErrNotFound)
	}
	if err := s.st.SaveEvent(ctx, e); err != nil {
		return model.MarketingEvent{}, fmt.Errorf("update event: %w", err)
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
		}
	}
	s.events = sortEvents(s.events)
	s.mu.Unlock()
	return e, nil
}

// RemoveEvent deletes an event and clears it from every session's preselection
func (s *State) RemoveEvent(ctx context.Context, id string) error {
	if err := s.st.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}

	s.mu.Lock()
	out := s.events[:0]
	for _, e := range s.events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	s.events = out
	for _, ss := range []*session{s.live, s.demo} {
		if ss != nil && ss.preselectedEventID == id {
			ss.preselectedEventID = ""
		}
	}
	s.mu.Unlock()
	return nil
}

// UpdateSettings merges patch into the platform settings and persists them
func (s *State) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.PlatformSettings, error) {
	next := patch.Apply(s.Settings())
	if err := s.st.SaveSettings(ctx, next); err != nil {
		return model.PlatformSettings{}, fmt.Errorf("update settings: %w", err)
	}

	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return next, nil
}

// Merchants lists the directory
func (s *State) Merchants(ctx context.Context) ([]model.Merchant, error) {
	return s.st.ListMerchants(ctx)
}

// ChangeMerchantStatus applies an admin status change to any merchant
func (s *State) ChangeMerchantStatus(ctx context.Context, id string, status model.SubscriptionStatus, plan model.PlanType) (model.Merchant, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	m, err := s.st.GetProfile(ctx, id)
	if err != nil {
		return model.Merchant{}, err
	}
	now := s.now().UTC()
	m.MerchantProfile = subscription.ChangeStatus(m.MerchantProfile, status, plan, now)
	if err := s.st.SaveProfile(ctx, m); err != nil {
		return model.Merchant{}, fmt.Errorf("change status of %s: %w", id, err)
	}

	if id == s.merchantID {
		s.mu.Lock()
		local := copyMerchant(m)
		s.live.profile = &local
		s.mu.Unlock()
	}

	events.PublishAsync(ctx, s.pub, events.Event{
		Type:       events.MerchantStatusChanged,
		MerchantID: id,
		OccurredAt: now,
		Data:       map[string]any{"status": string(status), "plan": string(m.PlanType)},
	})
	return m, nil
}

// DeleteMerchant removes a merchant and its content
func (s *State) DeleteMerchant(ctx context.Context, id string) error {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	if err := s.st.DeleteMerchant(ctx, id); err != nil {
		return err
	}

	if id == s.merchantID {
		s.mu.Lock()
		s.live.cancelGeneration()
		s.live.profile = nil
		s.live.contents = nil
		s.live.loggedIn = false
		s.live.latestCampaign = nil
		s.mu.Unlock()
	}

	events.PublishAsync(ctx, s.pub, events.Event{
		Type:       events.MerchantDeleted,
		MerchantID: id,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

func sortEvents(in []model.MarketingEvent) []model.MarketingEvent {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Date < in[j].Date })
	return in
}

func copyMerchant(m model.Merchant) model.Merchant {
	if m.Platforms != nil {
		m.Platforms = append(m.Platforms[:0:0], m.Platforms...)
	}
	return m
}
