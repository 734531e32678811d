package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/email"
	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// AdvisoryService handles the human advisory workflow: users file requests,
// admins answer them once, and the requester is notified by mail when their
// notification setting allows it.
type AdvisoryService interface {
	Create(ctx context.Context, userID uuid.UUID, fullName, emailAddr, subject, description string) (*model.Advisory, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Advisory, error)
	ListAll(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]model.Advisory, error)
	// Respond answers a pending advisory. A reviewed advisory cannot be
	// answered again.
	Respond(ctx context.Context, advisoryID, adminID uuid.UUID, response string) (*model.Advisory, error)
}

type advisoryService struct {
	advisoryRepo repository.AdvisoryRepository
	profileRepo  repository.ProfileRepository
	notifier     email.Notifier
	now          func() time.Time
}

// NewAdvisoryService creates a new advisory service.
func NewAdvisoryService(advisoryRepo repository.AdvisoryRepository, profileRepo repository.ProfileRepository, notifier email.Notifier) AdvisoryService {
	return &advisoryService{
		advisoryRepo: advisoryRepo,
		profileRepo:  profileRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Create files a new pending advisory request.
func (s *advisoryService) Create(ctx context.Context, userID uuid.UUID, fullName, emailAddr, subject, description string) (*model.Advisory, error) {
	advisory := &model.Advisory{
		UserID:      userID,
		FullName:    strings.TrimSpace(fullName),
		Email:       strings.TrimSpace(emailAddr),
		Subject:     strings.TrimSpace(subject),
		Description: strings.TrimSpace(description),
		Status:      model.AdvisoryStatusPending,
	}
	if advisory.Subject == "" || advisory.Description == "" {
		return nil, fmt.Errorf("subject and description are required")
	}
	if err := s.advisoryRepo.Create(ctx, advisory); err != nil {
		return nil, fmt.Errorf("create advisory: %w", err)
	}
	return advisory, nil
}

// ListMine returns the user's own requests, newest first.
func (s *advisoryService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Advisory, error) {
	return s.advisoryRepo.ListByUser(ctx, userID)
}

// ListAll returns requests across all users, optionally filtered by status.
func (s *advisoryService) ListAll(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]model.Advisory, error) {
	return s.advisoryRepo.ListAll(ctx, status, limit, offset)
}

// Respond records the admin's answer and marks the advisory reviewed. The
// row is locked so two admins cannot answer the same request.
func (s *advisoryService) Respond(ctx context.Context, advisoryID, adminID uuid.UUID, response string) (*model.Advisory, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("response is required")
	}

	var out *model.Advisory
	err := s.advisoryRepo.WithTransaction(ctx, func(ctx context.Context, advisories repository.AdvisoryRepository) error {
		advisory, err := advisories.FindByIDForUpdate(ctx, advisoryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrAdvisoryNotFound
			}
			return fmt.Errorf("lock advisory: %w", err)
		}
		if advisory.Status == model.AdvisoryStatusReviewed {
			return errors.ErrAdvisoryAlreadyReviewed
		}

		now := s.now()
		advisory.Status = model.AdvisoryStatusReviewed
		advisory.Response = &response
		advisory.RespondedAt = &now
		advisory.RespondedBy = &adminID
		if err := advisories.Update(ctx, advisory); err != nil {
			return fmt.Errorf("update advisory: %w", err)
		}

		out = advisory
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notification failures never fail the response itself.
	if profile, err := s.profileRepo.FindByID(ctx, out.UserID); err == nil && profile.EmailNotifications {
		_ = s.notifier.AdvisoryResponded(ctx, out.Email, out.FullName, out.Subject, response)
	}

	return out, nil
}
