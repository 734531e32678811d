package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"legalai/internal/model"
)

// QuotaRepository defines persistence for role limits and per-user daily
// message counters.
type QuotaRepository interface {
	GetRoleLimit(ctx context.Context, role model.Role) (*model.RoleLimit, error)
	UpsertRoleLimit(ctx context.Context, role model.Role, limit int) error
	ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error)

	// GetCount returns today's counter row; gorm.ErrRecordNotFound when absent.
	GetCount(ctx context.Context, userID uuid.UUID, date string) (*model.MessageCount, error)
	// EnsureCount lazily creates a zero-valued counter row. Creating a row
	// that already exists is a no-op.
	EnsureCount(ctx context.Context, userID uuid.UUID, date string) error
	// ConsumeWithinLimit atomically increments the counter only while
	// count < limit, creating the row with count=1 when absent. Returns
	// whether a unit was consumed.
	ConsumeWithinLimit(ctx context.Context, userID uuid.UUID, date string, limit int) (bool, error)
	// CountMessagesSince returns total messages per day on or after start,
	// for usage metrics.
	CountMessagesSince(ctx context.Context, start time.Time) (map[string]int, error)
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new quota repository.
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

// GetRoleLimit finds the daily limit row for a role.
func (r *quotaRepository) GetRoleLimit(ctx context.Context, role model.Role) (*model.RoleLimit, error) {
	var limit model.RoleLimit
	if err := r.db.WithContext(ctx).Where("role = ?", role).First(&limit).Error; err != nil {
		return nil, err
	}
	return &limit, nil
}

// UpsertRoleLimit overwrites the daily limit for a role, creating the row if
// missing.
func (r *quotaRepository) UpsertRoleLimit(ctx context.Context, role model.Role, limit int) error {
	row := model.RoleLimit{Role: role, DailyMessageLimit: limit}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"daily_message_limit": limit}),
	}).Create(&row).Error
}

// ListRoleLimits returns every configured role limit.
func (r *quotaRepository) ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error) {
	var limits []model.RoleLimit
	if err := r.db.WithContext(ctx).Order("role").Find(&limits).Error; err != nil {
		return nil, err
	}
	return limits, nil
}

// GetCount finds the counter row for one user and day.
func (r *quotaRepository) GetCount(ctx context.Context, userID uuid.UUID, date string) (*model.MessageCount, error) {
	var count model.MessageCount
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&count).Error; err != nil {
		return nil, err
	}
	return &count, nil
}

// EnsureCount inserts a zero-valued counter row if none exists yet.
func (r *quotaRepository) EnsureCount(ctx context.Context, userID uuid.UUID, date string) error {
	row := model.MessageCount{UserID: userID, Date: date, Count: 0}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
}

// ConsumeWithinLimit performs the atomic increment-with-limit-check. The
// conditional UPDATE carries the limit so two concurrent sends can never push
// the counter past it.
func (r *quotaRepository) ConsumeWithinLimit(ctx context.Context, userID uuid.UUID, date string, limit int) (bool, error) {
	if limit < 1 {
		return false, nil
	}

	update := func() (bool, error) {
		res := r.db.WithContext(ctx).Model(&model.MessageCount{}).
			Where("user_id = ? AND date = ? AND count < ?", userID, date, limit).
			UpdateColumn("count", gorm.Expr("count + 1"))
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected == 1, nil
	}

	ok, err := update()
	if err != nil || ok {
		return ok, err
	}

	// No row matched: either the budget is spent or the row does not exist
	// yet. Try a first-of-the-day insert with count=1; on a duplicate-key
	// race, fall back to one more conditional update.
	if _, err := r.GetCount(ctx, userID, date); err == nil {
		return false, nil
	} else if err != gorm.ErrRecordNotFound {
		return false, err
	}

	row := model.MessageCount{UserID: userID, Date: date, Count: 1}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	return update()
}

// CountMessagesSince aggregates daily counter totals on or after start.
func (r *quotaRepository) CountMessagesSince(ctx context.Context, start time.Time) (map[string]int, error) {
	type row struct {
		Date  string
		Total int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.MessageCount{}).
		Select("date, SUM(count) AS total").
		Where("date >= ?", start.UTC().Format(model.CounterDateLayout)).
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Date] = r.Total
	}
	return out, nil
}
