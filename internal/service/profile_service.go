package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
	"legalai/internal/storage"
)

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil pointers leave the current value untouched.
type ProfileUpdate struct {
	FullName           *string
	Phone              *string
	Address            *string
	EmailNotifications *bool
	WeeklySummary      *bool
	DarkMode           *bool
}

// ProfileService reads and mutates user profiles. Reading a profile is also
// where lapsed plus subscriptions get reconciled back to free.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.Profile, error)
	// UploadAvatar stores the image and replaces the previous one.
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, data io.Reader) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	store       storage.Storage
	now         func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, store storage.Storage) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		store:       store,
		now:         time.Now,
	}
}

// Get returns the profile, demoting an expired plus subscription to free
// before anything downstream sees the stale role.
func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if profile.SubscriptionExpired(s.now()) {
		profile.Role = model.RoleFree
		profile.SubscriptionEnd = nil
		profile.PendingDowngrade = false
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("demote expired subscription: %w", err)
		}
	}

	return profile, nil
}

// Update applies the user-editable fields and returns the fresh profile.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name != "" {
			profile.FullName = name
		}
	}
	if update.Phone != nil {
		profile.Phone = update.Phone
	}
	if update.Address != nil {
		profile.Address = update.Address
	}
	if update.EmailNotifications != nil {
		profile.EmailNotifications = *update.EmailNotifications
	}
	if update.WeeklySummary != nil {
		profile.WeeklySummary = *update.WeeklySummary
	}
	if update.DarkMode != nil {
		profile.DarkMode = *update.DarkMode
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// UploadAvatar stores the new image, points the profile at it, then removes
// the previous object. Deleting the old avatar is best effort.
func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, data io.Reader) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.AvatarKey(userID, filename)
	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	oldURL := profile.AvatarURL
	url := s.store.URL(key)
	profile.AvatarURL = &url
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if oldURL != nil {
		if oldKey, ok := avatarKeyFromURL(*oldURL); ok {
			_ = s.store.Delete(ctx, oldKey)
		}
	}

	return profile, nil
}

// avatarKeyFromURL recovers the storage key from a stored public URL.
func avatarKeyFromURL(url string) (string, bool) {
	idx := strings.Index(url, "avatars/")
	if idx < 0 {
		return "", false
	}
	return url[idx:], true
}
