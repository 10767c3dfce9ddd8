package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PlatformSettingsID is the key of the settings singleton
const PlatformSettingsID = "platform"

// DefaultTrialHours applies when settings do not set a trial duration
const DefaultTrialHours = 24

// SocialLinks are the platform's public profiles shown on the landing page
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	X         string `json:"x,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// PlanPrices is the monthly price table in SAR
type PlanPrices struct {
	Basic      decimal.Decimal `json:"basic" gorm:"type:numeric(12,2)"`
	Pro        decimal.Decimal `json:"pro" gorm:"type:numeric(12,2)"`
	Enterprise decimal.Decimal `json:"enterprise" gorm:"type:numeric(12,2)"`
}

// Price returns the price of plan. Unknown or empty plans are priced as basic.
func (p PlanPrices) Price(plan PlanType) decimal.Decimal {
	switch plan {
	case PlanPro:
		return p.Pro
	case PlanEnterprise:
		return p.Enterprise
	}
	return p.Basic
}

// DefaultPlanPrices is used when no price table has been saved
func DefaultPlanPrices() PlanPrices {
	return PlanPrices{
		Basic:      decimal.NewFromInt(99),
		Pro:        decimal.NewFromInt(299),
		Enterprise: decimal.NewFromInt(999),
	}
}

// PlatformSettings is the admin-managed singleton stored at settings/platform
type PlatformSettings struct {
	ID                 string                          `json:"-" gorm:"primaryKey;type:varchar(32)"`
	SocialLinks        datatypes.JSONType[SocialLinks] `json:"social_links"`
	GlobalMaintenance  bool                            `json:"global_maintenance"`
	TrialDurationHours int                             `json:"trial_duration_hours"`
	Plans              PlanPrices                      `json:"plans" gorm:"embedded;embeddedPrefix:plan_"`
}

// DefaultSettings returns the settings used before an admin saves any
func DefaultSettings() PlatformSettings {
	return PlatformSettings{
		ID: PlatformSettingsID,
		SocialLinks: datatypes.NewJSONType(SocialLinks{
			Instagram: "https://instagram.com/smartreminder",
			X:         "https://x.com/smartreminder",
			TikTok:    "https://tiktok.com/@smartreminder",
			YouTube:   "https://youtube.com/@smartreminder",
			LinkedIn:  "https://linkedin.com/company/smartreminder",
		}),
		TrialDurationHours: DefaultTrialHours,
		Plans:              DefaultPlanPrices(),
	}
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	SocialLinks        *SocialLinks `json:"social_links"`
	GlobalMaintenance  *bool        `json:"global_maintenance"`
	TrialDurationHours *int         `json:"trial_duration_hours"`
	Plans              *PlanPrices  `json:"plans"`
}

// Apply merges the patch into s
func (patch SettingsPatch) Apply(s PlatformSettings) PlatformSettings {
	if patch.SocialLinks != nil {
		s.SocialLinks = datatypes.NewJSONType(*patch.SocialLinks)
	}
	if patch.GlobalMaintenance != nil {
		s.GlobalMaintenance = *patch.GlobalMaintenance
	}
	if patch.TrialDurationHours != nil {
		s.TrialDurationHours = *patch.TrialDurationHours
	}
	if patch.Plans != nil {
		s.Plans = *patch.Plans
	}
	return s
}

// DiscountType is how a discount value is applied
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountCode is an admin-managed coupon
type DiscountCode struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Code       string          `json:"code" gorm:"type:varchar(64);uniqueIndex"`
	Type       DiscountType    `json:"type" gorm:"type:varchar(16)"`
	Value      decimal.Decimal `json:"value" gorm:"type:numeric(12,2)"`
	IsActive   bool            `json:"is_active"`
	ExpiryDate string          `json:"expiry_date" gorm:"type:varchar(10)"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NormalizeCode upper-cases and trims a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply returns price after the discount, never below zero
func (d DiscountCode) Apply(price decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		out = price.Sub(price.Mul(d.Value).Div(decimal.NewFromInt(100)))
	case DiscountFixed:
		out = price.Sub(d.Value)
	default:
		out = price
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out.Round(2)
}

// Usable reports whether the code is active and not past its expiry date (YYYY-MM-DD, inclusive)
func (d DiscountCode) Usable(today string) bool {
	if !d.IsActive {
		return false
	}
	return d.ExpiryDate == "" || today <= d.ExpiryDate
}
