package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/model"
)

// AdvisoryRepository defines advisory persistence operations.
type AdvisoryRepository interface {
	Create(ctx context.Context, advisory *model.Advisory) error
	Update(ctx context.Context, advisory *model.Advisory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Advisory, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Advisory, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Advisory, error)
	ListAll(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]model.Advisory, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.AdvisoryStatus) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Advisory, error)
	// WithTransaction executes fn inside a database transaction with a
	// transaction-bound repository, so the pending-to-reviewed transition is
	// locked end to end.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, advisories AdvisoryRepository) error) error
}

type advisoryRepository struct {
	db *gorm.DB
}

// NewAdvisoryRepository creates a new advisory repository.
func NewAdvisoryRepository(db *gorm.DB) AdvisoryRepository {
	return &advisoryRepository{db: db}
}

// Create creates a new advisory request.
func (r *advisoryRepository) Create(ctx context.Context, advisory *model.Advisory) error {
	return r.db.WithContext(ctx).Create(advisory).Error
}

// Update updates an existing advisory.
func (r *advisoryRepository) Update(ctx context.Context, advisory *model.Advisory) error {
	return r.db.WithContext(ctx).Save(advisory).Error
}

// FindByID finds an advisory by ID.
func (r *advisoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Advisory, error) {
	var advisory model.Advisory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&advisory).Error; err != nil {
		return nil, err
	}
	return &advisory, nil
}

// FindByIDForUpdate finds an advisory with a row-level lock so the
// pending-to-reviewed transition cannot be applied twice.
func (r *advisoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Advisory, error) {
	var advisory model.Advisory
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&advisory).Error; err != nil {
		return nil, err
	}
	return &advisory, nil
}

// ListByUser lists a user's advisories, newest first.
func (r *advisoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Advisory, error) {
	var advisories []model.Advisory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&advisories).Error; err != nil {
		return nil, err
	}
	return advisories, nil
}

// ListAll lists advisories, newest first, optionally filtered by status.
func (r *advisoryRepository) ListAll(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]model.Advisory, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var advisories []model.Advisory
	if err := q.Find(&advisories).Error; err != nil {
		return nil, err
	}
	return advisories, nil
}

// Count returns the total number of advisories.
func (r *advisoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Advisory{}).Count(&n).Error
	return n, err
}

// CountByStatus counts advisories in the given status.
func (r *advisoryRepository) CountByStatus(ctx context.Context, status model.AdvisoryStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Advisory{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

// ListRecent returns the newest advisories.
func (r *advisoryRepository) ListRecent(ctx context.Context, limit int) ([]model.Advisory, error) {
	var advisories []model.Advisory
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&advisories).Error; err != nil {
		return nil, err
	}
	return advisories, nil
}

// WithTransaction executes fn within a database transaction.
func (r *advisoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, advisories AdvisoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &advisoryRepository{db: tx})
	})
}
