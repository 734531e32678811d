package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"legalai/internal/auth"
	"legalai/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	tests := []struct {
		name          string
		email         string
		password      string
		fullName      string
		setupMocks    func(*MockProfileRepository)
		expectedError error
	}{
		{
			name:     "successful registration starts on the free plan",
			email:    "new@example.com",
			password: "password123",
			fullName: "New User",
			setupMocks: func(p *MockProfileRepository) {
				p.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				p.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			email:    "taken@example.com",
			password: "password123",
			fullName: "Dup User",
			setupMocks: func(p *MockProfileRepository) {
				p.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.Profile{
					ID: uuid.New(), Email: "taken@example.com",
				}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileRepo := new(MockProfileRepository)
			tokenStore := new(MockTokenStore)
			tt.setupMocks(profileRepo)

			svc := NewAuthService(profileRepo, jwtService, tokenStore)
			profile, err := svc.Register(context.Background(), tt.email, tt.password, tt.fullName)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.email, profile.Email)
				assert.Equal(t, tt.fullName, profile.FullName)
				assert.Equal(t, model.RoleFree, profile.Role)
				assert.True(t, profile.EmailNotifications)
				assert.NotEqual(t, tt.password, profile.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(tt.password)))
			}
			profileRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	assert.NoError(t, err)

	stored := &model.Profile{
		ID:           userID,
		Email:        "user@example.com",
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         model.RolePlus,
	}

	t.Run("successful login issues tokens with the role claim", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		tokenStore := new(MockTokenStore)

		profileRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(stored, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), userID, "user@example.com", auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(profileRepo, jwtService, tokenStore)
		accessToken, refreshToken, profile, err := svc.Login(context.Background(), "user@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, userID, profile.ID)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, string(model.RolePlus), claims.Role)

		tokenStore.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		tokenStore := new(MockTokenStore)

		profileRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(stored, nil)

		svc := NewAuthService(profileRepo, jwtService, tokenStore)
		_, _, _, err := svc.Login(context.Background(), "user@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		tokenStore.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		tokenStore := new(MockTokenStore)

		profileRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(profileRepo, jwtService, tokenStore)
		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "user@example.com", string(model.RolePlus))
	assert.NoError(t, err)

	t.Run("refresh re-reads the role from the profile", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		tokenStore := new(MockTokenStore)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, "user@example.com", nil)
		// Subscription lapsed since the refresh token was issued.
		profileRepo.On("FindByID", mock.Anything, userID).Return(&model.Profile{
			ID: userID, Email: "user@example.com", Role: model.RoleFree,
		}, nil)

		svc := NewAuthService(profileRepo, jwtService, tokenStore)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, string(model.RoleFree), claims.Role)
	})

	t.Run("token missing from store", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		tokenStore := new(MockTokenStore)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, "", assert.AnError)

		svc := NewAuthService(profileRepo, jwtService, tokenStore)
		_, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(MockProfileRepository), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-token")

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "user@example.com", string(model.RoleFree))
	assert.NoError(t, err)

	tokenStore := new(MockTokenStore)
	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockProfileRepository), jwtService, tokenStore)
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	tokenStore.AssertExpectations(t)
}
