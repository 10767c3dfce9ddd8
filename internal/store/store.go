// Package store persists merchants, events, generated content, settings and discount codes.
package store

import (
	"context"
	"errors"
	"fmt"

	"smart-reminder/internal/model"
	"smart-reminder/pkg/config"
	"smart-reminder/pkg/database"
)

// ErrNotFound is returned when a keyed document does not exist
var ErrNotFound = errors.New("not found")

// Store is the persistence client used by the application state
type Store interface {
	GetProfile(ctx context.Context, merchantID string) (model.Merchant, error)
	SaveProfile(ctx context.Context, m model.Merchant) error
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
	DeleteMerchant(ctx context.Context, merchantID string) error

	SaveEvent(ctx context.Context, e model.MarketingEvent) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]model.MarketingEvent, error)

	SaveContent(ctx context.Context, c model.GeneratedContent) error
	ListContents(ctx context.Context, merchantID string) ([]model.GeneratedContent, error)

	GetSettings(ctx context.Context) (model.PlatformSettings, error)
	SaveSettings(ctx context.Context, s model.PlatformSettings) error

	SaveDiscountCode(ctx context.Context, d model.DiscountCode) error
	ListDiscountCodes(ctx context.Context) ([]model.DiscountCode, error)
	FindDiscountCode(ctx context.Context, code string) (model.DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, id string) error
}

// Models lists every persisted type, for migrations
func Models() []interface{} {
	return []interface{}{
		&model.Merchant{},
		&model.MarketingEvent{},
		&model.GeneratedContent{},
		&model.PlatformSettings{},
		&model.DiscountCode{},
	}
}

// Open builds the backend selected by the DB driver
func Open(cfg *config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres, "":
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.MigrateModels(Models()...); err != nil {
			return nil, err
		}
		return NewGorm(db), nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
}
