package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"legalai/internal/model"
	"legalai/internal/repository"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
	// TxPayments is handed to WithTransaction callbacks so subscription tests
	// can assert the payment written inside the transaction.
	TxPayments repository.PaymentRepository
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Profile, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Count(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepository) CountPendingDowngrade(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepository) ListRecent(ctx context.Context, limit int) ([]model.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

// WithTransaction runs fn against the same mock so tests can assert the calls
// made inside the transaction body.
func (m *MockProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, profiles repository.ProfileRepository, payments repository.PaymentRepository) error) error {
	return fn(ctx, m, m.TxPayments)
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuotaRepository is a mock implementation of QuotaRepository.
type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) GetRoleLimit(ctx context.Context, role model.Role) (*model.RoleLimit, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleLimit), args.Error(1)
}

func (m *MockQuotaRepository) UpsertRoleLimit(ctx context.Context, role model.Role, limit int) error {
	args := m.Called(ctx, role, limit)
	return args.Error(0)
}

func (m *MockQuotaRepository) ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoleLimit), args.Error(1)
}

func (m *MockQuotaRepository) GetCount(ctx context.Context, userID uuid.UUID, date string) (*model.MessageCount, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MessageCount), args.Error(1)
}

func (m *MockQuotaRepository) EnsureCount(ctx context.Context, userID uuid.UUID, date string) error {
	args := m.Called(ctx, userID, date)
	return args.Error(0)
}

func (m *MockQuotaRepository) ConsumeWithinLimit(ctx context.Context, userID uuid.UUID, date string, limit int) (bool, error) {
	args := m.Called(ctx, userID, date, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuotaRepository) CountMessagesSince(ctx context.Context, start time.Time) (map[string]int, error) {
	args := m.Called(ctx, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockConfigRepository is a mock implementation of ConfigRepository.
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) Get(ctx context.Context) (*model.APIConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIConfig), args.Error(1)
}

func (m *MockConfigRepository) SetSubscriptionsEnabled(ctx context.Context, enabled bool) error {
	args := m.Called(ctx, enabled)
	return args.Error(0)
}

func (m *MockConfigRepository) SetPlusPrice(ctx context.Context, price decimal.Decimal) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

// MockChatRepository is a mock implementation of ChatRepository.
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockChatRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) TouchSession(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatRepository) ListRecentSessions(ctx context.Context, limit int) ([]model.ChatSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatSession), args.Error(1)
}

func (m *MockChatRepository) CountSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) CountSessionsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessagesBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAdvisoryRepository is a mock implementation of AdvisoryRepository.
type MockAdvisoryRepository struct {
	mock.Mock
}

func (m *MockAdvisoryRepository) Create(ctx context.Context, advisory *model.Advisory) error {
	args := m.Called(ctx, advisory)
	return args.Error(0)
}

func (m *MockAdvisoryRepository) Update(ctx context.Context, advisory *model.Advisory) error {
	args := m.Called(ctx, advisory)
	return args.Error(0)
}

func (m *MockAdvisoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Advisory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Advisory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Advisory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) ListAll(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]model.Advisory, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdvisoryRepository) CountByStatus(ctx context.Context, status model.AdvisoryStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdvisoryRepository) ListRecent(ctx context.Context, limit int) ([]model.Advisory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Advisory), args.Error(1)
}

// WithTransaction runs fn against the same mock.
func (m *MockAdvisoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, advisories repository.AdvisoryRepository) error) error {
	return fn(ctx, m)
}

// MockLawRepository is a mock implementation of LawRepository.
type MockLawRepository struct {
	mock.Mock
}

func (m *MockLawRepository) List(ctx context.Context, category string) ([]model.Law, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Law), args.Error(1)
}

func (m *MockLawRepository) FindByCode(ctx context.Context, code string) (*model.Law, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Law), args.Error(1)
}

func (m *MockLawRepository) UpsertBatch(ctx context.Context, laws []model.Law) error {
	args := m.Called(ctx, laws)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockAssistant is a mock implementation of assistant.Client.
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) CreateThread(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAssistant) Ask(ctx context.Context, threadID, message string) (string, error) {
	args := m.Called(ctx, threadID, message)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of email.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AdvisoryResponded(ctx context.Context, to, name, subject, response string) error {
	args := m.Called(ctx, to, name, subject, response)
	return args.Error(0)
}
