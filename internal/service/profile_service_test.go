package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
)

// stubStorage records storage calls in order for avatar tests.
type stubStorage struct {
	calls   []string
	deleted []string
}

func (s *stubStorage) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	s.calls = append(s.calls, "put:"+key)
	return nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	s.calls = append(s.calls, "delete:"+key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubStorage) URL(key string) string {
	return "http://localhost:8080/files/" + key
}

func TestProfileService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("active plus profile untouched", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		future := time.Now().Add(24 * time.Hour)
		profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
			ID: userID, Role: model.RolePlus, SubscriptionEnd: &future,
		}, nil)

		svc := NewProfileService(profileRepo, nil)
		profile, err := svc.Get(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, model.RolePlus, profile.Role)
		profileRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("lapsed plus is demoted to free on read", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		past := time.Now().Add(-24 * time.Hour)
		profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
			ID: userID, Role: model.RolePlus, SubscriptionEnd: &past, PendingDowngrade: true,
		}, nil)
		profileRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

		svc := NewProfileService(profileRepo, nil)
		profile, err := svc.Get(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleFree, profile.Role)
		assert.Nil(t, profile.SubscriptionEnd)
		assert.False(t, profile.PendingDowngrade)
		profileRepo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		profileRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProfileService(profileRepo, nil)
		_, err := svc.Get(context.Background(), userID)

		assert.ErrorIs(t, err, errors.ErrProfileNotFound)
	})
}

func TestProfileService_Update(t *testing.T) {
	userID := uuid.New()

	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	t.Run("applies only the provided fields", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
			ID: userID, Role: model.RoleFree, FullName: "Old Name", EmailNotifications: true, DarkMode: false,
		}, nil)
		profileRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

		svc := NewProfileService(profileRepo, nil)
		profile, err := svc.Update(context.Background(), userID, ProfileUpdate{
			FullName: strPtr("  New Name  "),
			DarkMode: boolPtr(true),
		})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", profile.FullName)
		assert.True(t, profile.DarkMode)
		assert.True(t, profile.EmailNotifications)
	})

	t.Run("blank name is ignored", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
			ID: userID, Role: model.RoleFree, FullName: "Old Name",
		}, nil)
		profileRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

		svc := NewProfileService(profileRepo, nil)
		profile, err := svc.Update(context.Background(), userID, ProfileUpdate{FullName: strPtr("   ")})

		assert.NoError(t, err)
		assert.Equal(t, "Old Name", profile.FullName)
	})
}

func TestProfileService_UploadAvatar_ReplacesOldAfterWrite(t *testing.T) {
	userID := uuid.New()
	oldURL := "http://localhost:8080/files/avatars/" + userID.String() + "/old.png"

	profileRepo := new(MockProfileRepository)
	store := &stubStorage{}
	profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
		ID: userID, Role: model.RoleFree, AvatarURL: &oldURL,
	}, nil)
	profileRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

	svc := NewProfileService(profileRepo, store)
	profile, err := svc.UploadAvatar(context.Background(), userID, "new.png", "image/png", strings.NewReader("img"))

	assert.NoError(t, err)
	assert.NotNil(t, profile.AvatarURL)
	assert.NotEqual(t, oldURL, *profile.AvatarURL)

	// The new object is written before the old one is removed, so a failed
	// upload can never leave the profile pointing at a deleted object.
	assert.Len(t, store.calls, 2)
	assert.True(t, strings.HasPrefix(store.calls[0], "put:avatars/"))
	assert.Equal(t, []string{"avatars/" + userID.String() + "/old.png"}, store.deleted)
}

func TestProfileService_UploadAvatar_FirstUploadDeletesNothing(t *testing.T) {
	userID := uuid.New()

	profileRepo := new(MockProfileRepository)
	store := &stubStorage{}
	profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
		ID: userID, Role: model.RoleFree,
	}, nil)
	profileRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)

	svc := NewProfileService(profileRepo, store)
	profile, err := svc.UploadAvatar(context.Background(), userID, "first.png", "image/png", strings.NewReader("img"))

	assert.NoError(t, err)
	assert.NotNil(t, profile.AvatarURL)
	assert.Empty(t, store.deleted)
}

func TestAvatarKeyFromURL(t *testing.T) {
	key, ok := avatarKeyFromURL("http://localhost:8080/files/avatars/abc/def.png")
	assert.True(t, ok)
	assert.Equal(t, "avatars/abc/def.png", key)
	assert.True(t, strings.HasPrefix(key, "avatars/"))

	_, ok = avatarKeyFromURL("http://localhost:8080/files/something-else.png")
	assert.False(t, ok)
}
