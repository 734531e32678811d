package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"legalai/internal/model"
)

// PaymentRepository defines payment persistence operations. Payments are
// append-only; there is no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
	SumAmountBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// ListByUser lists a user's payments, newest first.
func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumAmountBetween sums payment amounts created in [start, end).
func (r *paymentRepository) SumAmountBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("SUM(amount)").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CountBetween counts payments created in [start, end).
func (r *paymentRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("created_at >= ? AND created_at < ?", start, end).Count(&n).Error
	return n, err
}
