package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an append-only record produced by a subscription transition
// (upgrade or renewal). PeriodStart/PeriodEnd describe the covered period.
type Payment struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	PeriodStart time.Time       `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
}

// TableName overrides the default pluralization.
func (Payment) TableName() string { return "payments" }

// BeforeCreate sets the UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
