package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"smart-reminder/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormStore(t *testing.T) *Gorm {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGorm(db)
}

func TestGormProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	started := created.Add(time.Hour)

	first := model.Merchant{
		ID:        "main_merchant_store",
		Status:    model.AccountActive,
		CreatedAt: created,
		MerchantProfile: model.MerchantProfile{
			StoreName: "A",
			Email:     "owner@store.sa",
			Platforms: []string{"instagram"},
		},
	}
	require.NoError(t, s.SaveProfile(ctx, first))

	second := first
	second.StoreName = "B"
	second.PrimaryColor = "#0A4D3C"
	second.TrialStartedAt = &started
	second.SubscriptionStatus = model.StatusTrial
	second.TotalGeneratedContent = 3
	second.Platforms = []string{"x", "tiktok"}
	require.NoError(t, s.SaveProfile(ctx, second))
	require.NoError(t, s.SaveProfile(ctx, second))

	got, err := s.GetProfile(ctx, "main_merchant_store")
	require.NoError(t, err)
	assert.Equal(t, "B", got.StoreName)
	assert.Equal(t, "owner@store.sa", got.Email)
	assert.Equal(t, "#0A4D3C", got.PrimaryColor)
	assert.Equal(t, model.StatusTrial, got.SubscriptionStatus)
	assert.Equal(t, 3, got.TotalGeneratedContent)
	assert.Equal(t, []string{"x", "tiktok"}, []string(got.Platforms))
	require.NotNil(t, got.TrialStartedAt)
	assert.True(t, started.Equal(*got.TrialStartedAt))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.SubscriptionEndsAt)

	list, err := s.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGormNotFound(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	_, err := s.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteMerchant(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteEvent(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteDiscountCode(ctx, "missing"), ErrNotFound)
	_, err = s.FindDiscountCode(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormContentsNewestFirstAndCascade(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveProfile(ctx, model.Merchant{ID: "m", CreatedAt: base}))
	require.NoError(t, s.SaveContent(ctx, model.GeneratedContent{ID: "1", MerchantID: "m", Type: model.ContentCopy, Text: "one", CreatedAt: base}))
	require.NoError(t, s.SaveContent(ctx, model.GeneratedContent{ID: "2", MerchantID: "m", Type: model.ContentImage, URL: "https://cdn/x.png", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.SaveContent(ctx, model.GeneratedContent{ID: "3", MerchantID: "other", CreatedAt: base}))
	assert.Error(t, s.SaveContent(ctx, model.GeneratedContent{ID: "1", MerchantID: "m", CreatedAt: base}))

	got, err := s.ListContents(ctx, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "https://cdn/x.png", got[0].URL)
	assert.Equal(t, "1", got[1].ID)

	require.NoError(t, s.DeleteMerchant(ctx, "m"))
	got, err = s.ListContents(ctx, "m")
	require.NoError(t, err)
	assert.Empty(t, got)
	others, err := s.ListContents(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestGormEventsSortedByDate(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	require.NoError(t, s.SaveEvent(ctx, model.NewEvent("b", model.Localized{En: "B", Ar: "ب"}, "2026-05-01", model.EventCommercial, model.Localized{}, model.PriorityLow)))
	require.NoError(t, s.SaveEvent(ctx, model.NewEvent("a", model.Localized{En: "A"}, "2026-02-01", model.EventCommercial, model.Localized{}, model.PriorityLow)))
	require.NoError(t, s.SaveEvent(ctx, model.NewEvent("b", model.Localized{En: "B2", Ar: "ب"}, "2026-05-01", model.EventCommercial, model.Localized{}, model.PriorityHigh)))

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "B2", got[1].Title.Data().En)
	assert.Equal(t, "ب", got[1].Title.Data().Ar)
	assert.Equal(t, model.PriorityHigh, got[1].Priority)

	require.NoError(t, s.DeleteEvent(ctx, "a"))
	got, err = s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGormSettingsDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Plans.Pro.Equal(decimal.NewFromInt(299)))
	assert.Equal(t, 24, got.TrialDurationHours)

	got.GlobalMaintenance = true
	got.TrialDurationHours = 48
	got.Plans.Basic = decimal.RequireFromString("49.50")
	require.NoError(t, s.SaveSettings(ctx, got))

	again, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSettingsID, again.ID)
	assert.True(t, again.GlobalMaintenance)
	assert.Equal(t, 48, again.TrialDurationHours)
	assert.True(t, again.Plans.Basic.Equal(decimal.RequireFromString("49.5")), again.Plans.Basic.String())
	assert.True(t, again.Plans.Enterprise.Equal(decimal.NewFromInt(999)))
	assert.Equal(t, "https://x.com/smartreminder", again.SocialLinks.Data().X)
}

func TestGormDiscountCodes(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveDiscountCode(ctx, model.DiscountCode{
		ID: "c1", Code: "RAMADAN", Type: model.DiscountPercentage,
		Value: decimal.NewFromInt(20), IsActive: true, CreatedAt: created,
	}))
	require.NoError(t, s.SaveDiscountCode(ctx, model.DiscountCode{
		ID: "c2", Code: "EID", Type: model.DiscountFixed,
		Value: decimal.NewFromInt(50), CreatedAt: created.Add(time.Hour),
	}))

	d, err := s.FindDiscountCode(ctx, " ramadan ")
	require.NoError(t, err)
	assert.Equal(t, "c1", d.ID)
	assert.True(t, d.Value.Equal(decimal.NewFromInt(20)))

	list, err := s.ListDiscountCodes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)

	require.NoError(t, s.DeleteDiscountCode(ctx, "c1"))
	list, err = s.ListDiscountCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
