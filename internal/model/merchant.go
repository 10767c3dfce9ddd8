package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// SubscriptionStatus is the lifecycle state of a merchant subscription
type SubscriptionStatus string

const (
	StatusTrial   SubscriptionStatus = "trial"
	StatusActive  SubscriptionStatus = "active"
	StatusFrozen  SubscriptionStatus = "frozen"
	StatusExpired SubscriptionStatus = "expired"
)

// Valid reports whether s is one of the known statuses
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusFrozen, StatusExpired:
		return true
	}
	return false
}

// PlanType names a subscription plan
type PlanType string

const (
	PlanBasic      PlanType = "basic"
	PlanPro        PlanType = "pro"
	PlanEnterprise PlanType = "enterprise"
)

// Valid reports whether p is one of the known plans
func (p PlanType) Valid() bool {
	switch p {
	case PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Account status shown in the admin directory
const (
	AccountActive   = "active"
	AccountInactive = "inactive"
)

// MerchantProfile is the store owner's profile, brand identity and subscription state
type MerchantProfile struct {
	StoreName             string                      `json:"store_name" gorm:"type:varchar(150)"`
	BusinessType          string                      `json:"business_type" gorm:"type:varchar(100);index"`
	Country               string                      `json:"country" gorm:"type:varchar(100)"`
	Phone                 string                      `json:"phone" gorm:"type:varchar(50)"`
	Email                 string                      `json:"email" gorm:"type:varchar(150);index"`
	PasswordHash          string                      `json:"-" gorm:"type:varchar(100)"`
	Logo                  string                      `json:"logo,omitempty" gorm:"type:text"`
	PrimaryColor          string                      `json:"primary_color" gorm:"type:varchar(16)"`
	SecondaryColor1       string                      `json:"secondary_color1" gorm:"type:varchar(16)"`
	SecondaryColor2       string                      `json:"secondary_color2" gorm:"type:varchar(16)"`
	Platforms             datatypes.JSONSlice[string] `json:"platforms"`
	TrialStartedAt        *time.Time                  `json:"trial_started_at,omitempty"`
	SubscriptionStatus    SubscriptionStatus          `json:"subscription_status,omitempty" gorm:"type:varchar(16);index"`
	PlanType              PlanType                    `json:"plan_type,omitempty" gorm:"type:varchar(16)"`
	SubscriptionEndsAt    *time.Time                  `json:"subscription_ends_at,omitempty"`
	TotalGeneratedContent int                         `json:"total_generated_content"`
	LastLoginAt           *time.Time                  `json:"last_login_at,omitempty"`
}

// Merchant is a profile as listed in the founder dashboard, stored in merchants/{id}
type Merchant struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	MerchantProfile `gorm:"embedded"`
	Status          string    `json:"status" gorm:"type:varchar(16);default:active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	StoreName          *string             `json:"store_name"`
	BusinessType       *string             `json:"business_type"`
	Country            *string             `json:"country"`
	Phone              *string             `json:"phone"`
	Email              *string             `json:"email"`
	Logo               *string             `json:"logo"`
	PrimaryColor       *string             `json:"primary_color"`
	SecondaryColor1    *string             `json:"secondary_color1"`
	SecondaryColor2    *string             `json:"secondary_color2"`
	Platforms          []string            `json:"platforms"`
	SubscriptionStatus *SubscriptionStatus `json:"-"`
	PlanType           *PlanType           `json:"-"`
}

// Validate checks the brand colors of the patch
func (patch ProfilePatch) Validate() error {
	for _, c := range []*string{patch.PrimaryColor, patch.SecondaryColor1, patch.SecondaryColor2} {
		if c != nil && !ValidHexColor(*c) {
			return fmt.Errorf("%w: %q", ErrInvalidColor, *c)
		}
	}
	return nil
}

// Apply merges the patch into p
func (patch ProfilePatch) Apply(p MerchantProfile) MerchantProfile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.StoreName, patch.StoreName)
	set(&p.BusinessType, patch.BusinessType)
	set(&p.Country, patch.Country)
	set(&p.Phone, patch.Phone)
	set(&p.Email, patch.Email)
	set(&p.Logo, patch.Logo)
	set(&p.PrimaryColor, patch.PrimaryColor)
	set(&p.SecondaryColor1, patch.SecondaryColor1)
	set(&p.SecondaryColor2, patch.SecondaryColor2)
	if patch.Platforms != nil {
		p.Platforms = datatypes.NewJSONSlice(patch.Platforms)
	}
	if patch.SubscriptionStatus != nil {
		p.SubscriptionStatus = *patch.SubscriptionStatus
	}
	if patch.PlanType != nil {
		p.PlanType = *patch.PlanType
	}
	return p
}

// BrandColors returns the three brand colors in display order
func (p MerchantProfile) BrandColors() []string {
	return []string{p.PrimaryColor, p.SecondaryColor1, p.SecondaryColor2}
}
