package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// subscriptionPeriod is the length of one paid plus period.
const subscriptionPeriod = 30 * 24 * time.Hour

// SubscriptionService owns the free/plus lifecycle. Every state transition
// runs inside one database transaction with the profile row locked, and paid
// transitions record a payment in the same transaction.
type SubscriptionService interface {
	// Upgrade moves a free user to plus for one period.
	Upgrade(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// RequestDowngrade flags a plus subscription to lapse at period end
	// instead of renewing.
	RequestDowngrade(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// Renew extends an active plus subscription by one period and clears a
	// pending downgrade.
	Renew(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// SetSubscriptionEnd lets an admin overwrite a user's period end.
	SetSubscriptionEnd(ctx context.Context, userID uuid.UUID, end time.Time) (*model.Profile, error)

	ListPayments(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
	SetSubscriptionsEnabled(ctx context.Context, enabled bool) error
	SetPlusPrice(ctx context.Context, price decimal.Decimal) error
	Config(ctx context.Context) (*model.APIConfig, error)
}

type subscriptionService struct {
	profileRepo repository.ProfileRepository
	paymentRepo repository.PaymentRepository
	configRepo  repository.ConfigRepository
	now         func() time.Time
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(profileRepo repository.ProfileRepository, paymentRepo repository.PaymentRepository, configRepo repository.ConfigRepository) SubscriptionService {
	return &subscriptionService{
		profileRepo: profileRepo,
		paymentRepo: paymentRepo,
		configRepo:  configRepo,
		now:         time.Now,
	}
}

// gate rejects paid transitions while the platform switch is off, and returns
// the current price for the ones that go through.
func (s *subscriptionService) gate(ctx context.Context) (decimal.Decimal, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load config: %w", err)
	}
	if !cfg.SubscriptionsEnabled {
		return decimal.Zero, errors.ErrSubscriptionsDisabled
	}
	return cfg.PlusPriceMonthly, nil
}

// Upgrade moves a free user to plus and records the payment.
func (s *subscriptionService) Upgrade(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	price, err := s.gate(ctx)
	if err != nil {
		return nil, err
	}

	var out *model.Profile
	err = s.profileRepo.WithTransaction(ctx, func(ctx context.Context, profiles repository.ProfileRepository, payments repository.PaymentRepository) error {
		profile, err := profiles.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrProfileNotFound
			}
			return fmt.Errorf("lock profile: %w", err)
		}

		now := s.now()
		// An expired plus row counts as free here so the user can re-subscribe.
		if profile.EffectiveRole(now) != model.RoleFree {
			return errors.ErrAlreadySubscribed
		}

		end := now.Add(subscriptionPeriod)
		profile.Role = model.RolePlus
		profile.SubscriptionEnd = &end
		profile.PendingDowngrade = false
		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		payment := &model.Payment{
			UserID:      userID,
			Amount:      price,
			PeriodStart: now,
			PeriodEnd:   end,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequestDowngrade marks the subscription to lapse at period end. The user
// keeps plus access until then.
func (s *subscriptionService) RequestDowngrade(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var out *model.Profile
	err := s.profileRepo.WithTransaction(ctx, func(ctx context.Context, profiles repository.ProfileRepository, payments repository.PaymentRepository) error {
		profile, err := profiles.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrProfileNotFound
			}
			return fmt.Errorf("lock profile: %w", err)
		}

		if profile.EffectiveRole(s.now()) != model.RolePlus {
			return errors.ErrNotSubscribed
		}

		profile.PendingDowngrade = true
		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Renew extends an active subscription by one period from its current end and
// records the payment. A pending downgrade is cancelled by renewing.
func (s *subscriptionService) Renew(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	price, err := s.gate(ctx)
	if err != nil {
		return nil, err
	}

	var out *model.Profile
	err = s.profileRepo.WithTransaction(ctx, func(ctx context.Context, profiles repository.ProfileRepository, payments repository.PaymentRepository) error {
		profile, err := profiles.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrProfileNotFound
			}
			return fmt.Errorf("lock profile: %w", err)
		}

		now := s.now()
		if profile.EffectiveRole(now) != model.RolePlus {
			return errors.ErrNotSubscribed
		}

		// Extend from the current end so renewing early never loses paid days.
		start := now
		if profile.SubscriptionEnd != nil && profile.SubscriptionEnd.After(now) {
			start = *profile.SubscriptionEnd
		}
		end := start.Add(subscriptionPeriod)
		profile.SubscriptionEnd = &end
		profile.PendingDowngrade = false
		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		payment := &model.Payment{
			UserID:      userID,
			Amount:      price,
			PeriodStart: start,
			PeriodEnd:   end,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetSubscriptionEnd overwrites the period end for a user. Setting an end in
// the past effectively revokes plus on the next read.
func (s *subscriptionService) SetSubscriptionEnd(ctx context.Context, userID uuid.UUID, end time.Time) (*model.Profile, error) {
	var out *model.Profile
	err := s.profileRepo.WithTransaction(ctx, func(ctx context.Context, profiles repository.ProfileRepository, payments repository.PaymentRepository) error {
		profile, err := profiles.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrProfileNotFound
			}
			return fmt.Errorf("lock profile: %w", err)
		}

		if profile.Role != model.RolePlus {
			return errors.ErrNotSubscribed
		}

		profile.SubscriptionEnd = &end
		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPayments returns the user's payment history, newest first.
func (s *subscriptionService) ListPayments(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

// SetSubscriptionsEnabled toggles the platform-wide subscription switch.
func (s *subscriptionService) SetSubscriptionsEnabled(ctx context.Context, enabled bool) error {
	return s.configRepo.SetSubscriptionsEnabled(ctx, enabled)
}

// SetPlusPrice overwrites the monthly plus price.
func (s *subscriptionService) SetPlusPrice(ctx context.Context, price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.ErrInvalidPrice
	}
	return s.configRepo.SetPlusPrice(ctx, price)
}

// Config returns the current platform configuration.
func (s *subscriptionService) Config(ctx context.Context) (*model.APIConfig, error) {
	return s.configRepo.Get(ctx)
}
