package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"legalai/internal/model"
)

// defaultPlusPrice is used when the configuration row is created lazily.
var defaultPlusPrice = decimal.NewFromInt(20)

// ConfigRepository gives access to the single platform configuration row.
type ConfigRepository interface {
	Get(ctx context.Context) (*model.APIConfig, error)
	SetSubscriptionsEnabled(ctx context.Context, enabled bool) error
	SetPlusPrice(ctx context.Context, price decimal.Decimal) error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new config repository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// Get returns the configuration row, creating the default one on first use.
func (r *configRepository) Get(ctx context.Context) (*model.APIConfig, error) {
	var cfg model.APIConfig
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cfg = model.APIConfig{SubscriptionsEnabled: true, PlusPriceMonthly: defaultPlusPrice}
	if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetSubscriptionsEnabled toggles the platform-wide subscription switch.
func (r *configRepository) SetSubscriptionsEnabled(ctx context.Context, enabled bool) error {
	cfg, err := r.Get(ctx)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(cfg).Update("subscriptions_enabled", enabled).Error
}

// SetPlusPrice overwrites the monthly plus price.
func (r *configRepository) SetPlusPrice(ctx context.Context, price decimal.Decimal) error {
	cfg, err := r.Get(ctx)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(cfg).Update("plus_price_monthly", price).Error
}
