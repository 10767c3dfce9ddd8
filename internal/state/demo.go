package state

import (
	"time"

	"smart-reminder/internal/model"
)

func demoMerchant(id, lang string, now time.Time) model.Merchant {
	name := "Elite Fashion"
	if lang == "ar" {
		name = "أزياء النخبة"
	}
	start := now
	return model.Merchant{
		ID:        id,
		Status:    model.AccountActive,
		CreatedAt: now,
		MerchantProfile: model.MerchantProfile{
			StoreName:          name,
			BusinessType:       "fashion",
			Country:            "SA",
			Phone:              "+966500000000",
			Email:              "demo@elitefashion.com",
			Logo:               "https://images.unsplash.com/photo-1558655146-d09347e92766?q=80&w=1964&auto=format&fit=crop",
			PrimaryColor:       "#6366f1",
			SecondaryColor1:    "#a855f7",
			SecondaryColor2:    "#f43f5e",
			Platforms:          []string{"Instagram", "Snapchat", "TikTok"},
			SubscriptionStatus: model.StatusTrial,
			PlanType:           model.PlanBasic,
			TrialStartedAt:     &start,
		},
	}
}

func demoContents(merchantID string, now time.Time) []model.GeneratedContent {
	return []model.GeneratedContent{
		{
			ID:         "d1",
			MerchantID: merchantID,
			Type:       model.ContentImage,
			URL:        "https://images.unsplash.com/photo-1483985988355-763728e1935b?q=80&w=2070&auto=format&fit=crop",
			CreatedAt:  now,
		},
		{
			ID:         "d2",
			MerchantID: merchantID,
			Type:       model.ContentCopy,
			Text:       "اكتشفوا تشكيلة يوم التأسيس الجديدة لدى أزياء النخبة. عراقة الماضي بتصاميم الحاضر.",
			CreatedAt:  now,
		},
	}
}
