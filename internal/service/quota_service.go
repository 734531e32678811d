package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// QuotaService enforces per-role daily message budgets. Counters are stored
// per user and UTC calendar day; the limit comes from the user's effective
// role, so an expired plus subscription counts against the free budget.
type QuotaService interface {
	// DailyStats returns today's limit, used and remaining for the user,
	// lazily creating the zero counter row.
	DailyStats(ctx context.Context, userID uuid.UUID) (*model.DailyStats, error)
	// CanSend reports whether the user still has budget today, returning
	// ErrQuotaExceeded when it is gone. It does not spend anything; Consume
	// remains the authoritative check-and-increment.
	CanSend(ctx context.Context, userID uuid.UUID) error
	// Consume spends one message unit, or returns ErrQuotaExceeded when the
	// budget is gone. The check and increment are a single atomic statement.
	Consume(ctx context.Context, userID uuid.UUID) error
	// SetRoleLimit overwrites the daily budget for a role.
	SetRoleLimit(ctx context.Context, role model.Role, limit int) error
	ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error)
}

type quotaService struct {
	quotaRepo   repository.QuotaRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewQuotaService creates a new quota service.
func NewQuotaService(quotaRepo repository.QuotaRepository, profileRepo repository.ProfileRepository) QuotaService {
	return &quotaService{
		quotaRepo:   quotaRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// limitFor resolves the daily budget for the user's effective role. A role
// with no configured limit row blocks sending rather than allowing unmetered
// use.
func (s *quotaService) limitFor(ctx context.Context, userID uuid.UUID) (int, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errors.ErrProfileNotFound
		}
		return 0, fmt.Errorf("find profile: %w", err)
	}

	role := profile.EffectiveRole(s.now())
	limit, err := s.quotaRepo.GetRoleLimit(ctx, role)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errors.ErrRoleLimitNotConfigured
		}
		return 0, fmt.Errorf("get role limit: %w", err)
	}
	return limit.DailyMessageLimit, nil
}

// DailyStats reports today's usage for the user.
func (s *quotaService) DailyStats(ctx context.Context, userID uuid.UUID) (*model.DailyStats, error) {
	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	date := model.Today()
	if err := s.quotaRepo.EnsureCount(ctx, userID, date); err != nil {
		return nil, fmt.Errorf("ensure counter: %w", err)
	}
	count, err := s.quotaRepo.GetCount(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get counter: %w", err)
	}

	remaining := limit - count.Count
	if remaining < 0 {
		remaining = 0
	}
	return &model.DailyStats{Limit: limit, Used: count.Count, Remaining: remaining}, nil
}

// CanSend checks today's budget without spending it. A missing counter row
// means nothing was used yet.
func (s *quotaService) CanSend(ctx context.Context, userID uuid.UUID) error {
	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		return err
	}

	count, err := s.quotaRepo.GetCount(ctx, userID, model.Today())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("get counter: %w", err)
	}
	if count.Count >= limit {
		return errors.ErrQuotaExceeded
	}
	return nil
}

// Consume spends one unit of today's budget.
func (s *quotaService) Consume(ctx context.Context, userID uuid.UUID) error {
	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.quotaRepo.ConsumeWithinLimit(ctx, userID, model.Today(), limit)
	if err != nil {
		return fmt.Errorf("consume quota: %w", err)
	}
	if !ok {
		return errors.ErrQuotaExceeded
	}
	return nil
}

// SetRoleLimit validates and overwrites the daily budget for a role.
func (s *quotaService) SetRoleLimit(ctx context.Context, role model.Role, limit int) error {
	if !role.Valid() {
		return errors.ErrInvalidRole
	}
	if limit < 1 {
		return errors.ErrInvalidLimit
	}
	return s.quotaRepo.UpsertRoleLimit(ctx, role, limit)
}

// ListRoleLimits returns every configured role limit.
func (s *quotaService) ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error) {
	return s.quotaRepo.ListRoleLimits(ctx)
}
