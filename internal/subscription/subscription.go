// Package subscription decides whether a merchant's trial or subscription has lapsed.
package subscription

import (
	"time"

	"smart-reminder/internal/model"
)

// DefaultTrialWindow is the trial length when settings leave it unset
const DefaultTrialWindow = model.DefaultTrialHours * time.Hour

// ActivationPeriod is how long an admin activation lasts
const ActivationPeriod = 30 * 24 * time.Hour

// TrialWindow returns the configured trial length
func TrialWindow(settings model.PlatformSettings) time.Duration {
	if settings.TrialDurationHours > 0 {
		return time.Duration(settings.TrialDurationHours) * time.Hour
	}
	return DefaultTrialWindow
}

// IsFrozen reports whether a profile with the given status and trial start must be blocked.
// frozen and expired always block; trial blocks once the window has elapsed.
func IsFrozen(status model.SubscriptionStatus, trialStartedAt *time.Time, now time.Time, window time.Duration) bool {
	switch status {
	case model.StatusFrozen, model.StatusExpired:
		return true
	case model.StatusTrial:
		if trialStartedAt == nil {
			return false
		}
		return now.Sub(*trialStartedAt) >= window
	}
	return false
}

// ProfileFrozen is IsFrozen applied to a profile
func ProfileFrozen(p model.MerchantProfile, now time.Time, window time.Duration) bool {
	return IsFrozen(p.SubscriptionStatus, p.TrialStartedAt, now, window)
}

// IsExpired is the founder dashboard predicate for unconverted merchants.
// It shares the frozen rule so both sides agree on which merchants are blocked.
func IsExpired(m model.Merchant, now time.Time, window time.Duration) bool {
	return ProfileFrozen(m.MerchantProfile, now, window)
}

// TrialRemaining returns the time left in the trial, zero once it has elapsed
func TrialRemaining(trialStartedAt *time.Time, now time.Time, window time.Duration) time.Duration {
	if trialStartedAt == nil {
		return 0
	}
	left := trialStartedAt.Add(window).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// StartTrial puts a new profile on trial from now
func StartTrial(p model.MerchantProfile, now time.Time) model.MerchantProfile {
	start := now
	p.TrialStartedAt = &start
	p.SubscriptionStatus = model.StatusTrial
	p.PlanType = model.PlanBasic
	p.SubscriptionEndsAt = nil
	return p
}

// ChangeStatus applies an admin status change. Activation sets the plan, when given,
// and a 30 day end date; any other status clears the end date.
func ChangeStatus(p model.MerchantProfile, status model.SubscriptionStatus, plan model.PlanType, now time.Time) model.MerchantProfile {
	p.SubscriptionStatus = status
	if plan != "" {
		p.PlanType = plan
	}
	if status == model.StatusActive {
		ends := now.Add(ActivationPeriod)
		p.SubscriptionEndsAt = &ends
	} else {
		p.SubscriptionEndsAt = nil
	}
	return p
}

// Activate moves the profile onto a paid plan
func Activate(p model.MerchantProfile, plan model.PlanType, now time.Time) model.MerchantProfile {
	return ChangeStatus(p, model.StatusActive, plan, now)
}
