package state

import (
	"context"

	"smart-reminder/internal/model"
)

// session is what one kind of login sees: the stored merchant, or the demo showcase.
// The demo session is never persisted and never shares data with the stored one.
type session struct {
	demo               bool
	profile            *model.Merchant
	contents           []model.GeneratedContent
	loggedIn           bool
	activeView         string
	preselectedEventID string
	latestCampaign     *model.CampaignReport
	generation         *Ticket
}

func newSession(demo bool) *session {
	return &session{demo: demo, activeView: ViewDashboard}
}

// cancelGeneration drops the in-flight ticket, if any
func (ss *session) cancelGeneration() {
	if ss.generation != nil {
		ss.generation.cancel()
		ss.generation = nil
	}
}

type demoKey struct{}

// WithDemo marks ctx as belonging to a demo session
func WithDemo(ctx context.Context, demo bool) context.Context {
	return context.WithValue(ctx, demoKey{}, demo)
}

// DemoFromContext reports whether ctx belongs to a demo session
func DemoFromContext(ctx context.Context) bool {
	demo, _ := ctx.Value(demoKey{}).(bool)
	return demo
}

// sessionLocked picks the session ctx belongs to. A demo context without an open demo
// session gets an empty detached session, so it reads nothing and its writes go nowhere.
// Callers hold s.mu.
func (s *State) sessionLocked(ctx context.Context) *session {
	if !DemoFromContext(ctx) {
		return s.live
	}
	if s.demo == nil {
		return newSession(true)
	}
	return s.demo
}
