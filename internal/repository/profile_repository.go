package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.Profile, error)
	// Count counts profiles matching the same search filter List applies; an
	// empty search counts everything.
	Count(ctx context.Context, search string) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountPendingDowngrade(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Profile, error)
	// WithTransaction executes fn inside a database transaction; the callback
	// receives transaction-bound profile and payment repositories so that a
	// subscription transition mutates the profile and records its payment
	// atomically.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, profiles ProfileRepository, payments PaymentRepository) error) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates an existing profile.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// FindByID finds a profile by ID.
func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDForUpdate finds a profile by ID with a row-level lock for update.
func (r *profileRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns profiles ordered by creation time, optionally filtered by a
// name/email search term.
func (r *profileRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Profile, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	var profiles []model.Profile
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Count returns the number of profiles matching the search term, or all
// profiles when the term is empty.
func (r *profileRepository) Count(ctx context.Context, search string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Profile{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountByRole counts profiles holding the given role.
func (r *profileRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("role = ?", role).Count(&n).Error
	return n, err
}

// CountPendingDowngrade counts plus profiles flagged for cancellation.
func (r *profileRepository) CountPendingDowngrade(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("role = ? AND pending_downgrade = ?", model.RolePlus, true).Count(&n).Error
	return n, err
}

// CountCreatedBetween counts profiles created in [start, end).
func (r *profileRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("created_at >= ? AND created_at < ?", start, end).Count(&n).Error
	return n, err
}

// ListRecent returns the newest profiles.
func (r *profileRepository) ListRecent(ctx context.Context, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// WithTransaction executes fn within a database transaction.
func (r *profileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, profiles ProfileRepository, payments PaymentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &profileRepository{db: tx}, &paymentRepository{db: tx})
	})
}
