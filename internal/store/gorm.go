package store

import (
	"context"
	"errors"
	"fmt"

	"smart-reminder/internal/model"

	"gorm.io/gorm"
)

// Gorm stores documents in relational tables
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an open connection
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Gorm) GetProfile(ctx context.Context, merchantID string) (model.Merchant, error) {
	var m model.Merchant
	if err := s.db.WithContext(ctx).First(&m, "id = ?", merchantID).Error; err != nil {
		return model.Merchant{}, fmt.Errorf("get merchant %s: %w", merchantID, notFound(err))
	}
	return m, nil
}

func (s *Gorm) SaveProfile(ctx context.Context, m model.Merchant) error {
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("save merchant %s: %w", m.ID, err)
	}
	return nil
}

func (s *Gorm) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	var out []model.Merchant
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	return out, nil
}

func (s *Gorm) DeleteMerchant(ctx context.Context, merchantID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Merchant{}, "id = ?", merchantID)
		if res.Error != nil {
			return fmt.Errorf("delete merchant %s: %w", merchantID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete merchant %s: %w", merchantID, ErrNotFound)
		}
		if err := tx.Delete(&model.GeneratedContent{}, "merchant_id = ?", merchantID).Error; err != nil {
			return fmt.Errorf("delete contents of %s: %w", merchantID, err)
		}
		return nil
	})
}

func (s *Gorm) SaveEvent(ctx context.Context, e model.MarketingEvent) error {
	if err := s.db.WithContext(ctx).Save(&e).Error; err != nil {
		return fmt.Errorf("save event %s: %w", e.ID, err)
	}
	return nil
}

func (s *Gorm) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.MarketingEvent{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Gorm) ListEvents(ctx context.Context) ([]model.MarketingEvent, error) {
	var out []model.MarketingEvent
	if err := s.db.WithContext(ctx).Order("date asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (s *Gorm) SaveContent(ctx context.Context, c model.GeneratedContent) error {
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return fmt.Errorf("save content %s: %w", c.ID, err)
	}
	return nil
}

func (s *Gorm) ListContents(ctx context.Context, merchantID string) ([]model.GeneratedContent, error) {
	var out []model.GeneratedContent
	err := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list contents of %s: %w", merchantID, err)
	}
	return out, nil
}

func (s *Gorm) GetSettings(ctx context.Context) (model.PlatformSettings, error) {
	var out model.PlatformSettings
	err := s.db.WithContext(ctx).First(&out, "id = ?", model.PlatformSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.PlatformSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return out, nil
}

func (s *Gorm) SaveSettings(ctx context.Context, settings model.PlatformSettings) error {
	settings.ID = model.PlatformSettingsID
	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Gorm) SaveDiscountCode(ctx context.Context, d model.DiscountCode) error {
	if err := s.db.WithContext(ctx).Save(&d).Error; err != nil {
		return fmt.Errorf("save discount code %s: %w", d.Code, err)
	}
	return nil
}

func (s *Gorm) ListDiscountCodes(ctx context.Context) ([]model.DiscountCode, error) {
	var out []model.DiscountCode
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list discount codes: %w", err)
	}
	return out, nil
}

func (s *Gorm) FindDiscountCode(ctx context.Context, code string) (model.DiscountCode, error) {
	var d model.DiscountCode
	if err := s.db.WithContext(ctx).First(&d, "code = ?", model.NormalizeCode(code)).Error; err != nil {
		return model.DiscountCode{}, fmt.Errorf("find discount code %s: %w", code, notFound(err))
	}
	return d, nil
}

func (s *Gorm) DeleteDiscountCode(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.DiscountCode{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete discount code %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete discount code %s: %w", id, ErrNotFound)
	}
	return nil
}
