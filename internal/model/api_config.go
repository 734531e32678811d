package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// APIConfig is the single-row platform configuration. SubscriptionsEnabled
// gates the upgrade/renew transitions; PlusPriceMonthly is the amount recorded
// on each subscription payment.
type APIConfig struct {
	ID                   uint            `json:"-" gorm:"primaryKey"`
	SubscriptionsEnabled bool            `json:"subscriptions_enabled" gorm:"default:true"`
	PlusPriceMonthly     decimal.Decimal `json:"plus_price_monthly" gorm:"type:decimal(20,2);not null"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (APIConfig) TableName() string { return "api_config" }
