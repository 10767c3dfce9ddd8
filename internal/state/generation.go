package state

import (
	"context"
	"errors"
)

// ErrStaleGeneration is returned when a result arrives after its generation was superseded
var ErrStaleGeneration = errors.New("generation superseded")

// Ticket identifies one in-flight generation. Its context is cancelled when the merchant
// leaves the view it was started from or starts another generation.
type Ticket struct {
	ID     uint64
	View   string
	ctx    context.Context
	cancel context.CancelFunc
	sess   *session
}

// Context is the context the generation must run under
func (t *Ticket) Context() context.Context { return t.ctx }

// BeginGeneration starts a generation from view, superseding any previous one in the
// session parent belongs to
func (s *State) BeginGeneration(parent context.Context, view string) *Ticket {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessionLocked(parent)
	ss.cancelGeneration()
	s.generationSeq++
	t := &Ticket{ID: s.generationSeq, View: view, ctx: ctx, cancel: cancel, sess: ss}
	ss.generation = t
	return t
}

// CommitGeneration reports whether t is still the current generation
func (s *State) CommitGeneration(t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.sess.generation != t || t.ctx.Err() != nil {
		return ErrStaleGeneration
	}
	return nil
}

// EndGeneration releases t. It is safe to call after the ticket was superseded.
func (s *State) EndGeneration(t *Ticket) {
	t.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.sess.generation == t {
		t.sess.generation = nil
	}
}
