package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"smart-reminder/internal/model"
)

// Memory is an in-process store for development and tests
type Memory struct {
	mu        sync.Mutex
	merchants []model.Merchant
	events    []model.MarketingEvent
	contents  map[string][]model.GeneratedContent
	settings  *model.PlatformSettings
	discounts []model.DiscountCode

	// FailWrites makes every write return the error, to exercise failure paths
	FailWrites error
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{contents: make(map[string][]model.GeneratedContent)}
}

func (s *Memory) GetProfile(_ context.Context, merchantID string) (model.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.merchants {
		if m.ID == merchantID {
			m.Platforms = append(m.Platforms[:0:0], m.Platforms...)
			return m, nil
		}
	}
	return model.Merchant{}, fmt.Errorf("get merchant %s: %w", merchantID, ErrNotFound)
}

func (s *Memory) SaveProfile(_ context.Context, m model.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	m.Platforms = append(m.Platforms[:0:0], m.Platforms...)
	for i := range s.merchants {
		if s.merchants[i].ID == m.ID {
			s.merchants[i] = m
			return nil
		}
	}
	s.merchants = append([]model.Merchant{m}, s.merchants...)
	return nil
}

func (s *Memory) ListMerchants(_ context.Context) ([]model.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Merchant, len(s.merchants))
	copy(cp, s.merchants)
	return cp, nil
}

func (s *Memory) DeleteMerchant(_ context.Context, merchantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i, m := range s.merchants {
		if m.ID == merchantID {
			s.merchants = append(s.merchants[:i], s.merchants[i+1:]...)
			delete(s.contents, merchantID)
			return nil
		}
	}
	return fmt.Errorf("delete merchant %s: %w", merchantID, ErrNotFound)
}

func (s *Memory) SaveEvent(_ context.Context, e model.MarketingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = e
			return nil
		}
	}
	s.events = append(s.events, e)
	return nil
}

func (s *Memory) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete event %s: %w", id, ErrNotFound)
}

func (s *Memory) ListEvents(_ context.Context) ([]model.MarketingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.MarketingEvent, len(s.events))
	copy(cp, s.events)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Date < cp[j].Date })
	return cp, nil
}

func (s *Memory) SaveContent(_ context.Context, c model.GeneratedContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.contents[c.MerchantID] = append([]model.GeneratedContent{c}, s.contents[c.MerchantID]...)
	return nil
}

func (s *Memory) ListContents(_ context.Context, merchantID string) ([]model.GeneratedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.GeneratedContent, len(s.contents[merchantID]))
	copy(cp, s.contents[merchantID])
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].CreatedAt.After(cp[j].CreatedAt) })
	return cp, nil
}

func (s *Memory) GetSettings(_ context.Context) (model.PlatformSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return model.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *Memory) SaveSettings(_ context.Context, settings model.PlatformSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	settings.ID = model.PlatformSettingsID
	s.settings = &settings
	return nil
}

func (s *Memory) SaveDiscountCode(_ context.Context, d model.DiscountCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i := range s.discounts {
		if s.discounts[i].ID == d.ID {
			s.discounts[i] = d
			return nil
		}
	}
	s.discounts = append([]model.DiscountCode{d}, s.discounts...)
	return nil
}

func (s *Memory) ListDiscountCodes(_ context.Context) ([]model.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.DiscountCode, len(s.discounts))
	copy(cp, s.discounts)
	return cp, nil
}

func (s *Memory) FindDiscountCode(_ context.Context, code string) (model.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = model.NormalizeCode(code)
	for _, d := range s.discounts {
		if d.Code == code {
			return d, nil
		}
	}
	return model.DiscountCode{}, fmt.Errorf("find discount code %s: %w", code, ErrNotFound)
}

func (s *Memory) DeleteDiscountCode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for i, d := range s.discounts {
		if d.ID == id {
			s.discounts = append(s.discounts[:i], s.discounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete discount code %s: %w", id, ErrNotFound)
}
