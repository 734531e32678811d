package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
)

// stubQuota satisfies QuotaService for chat tests without standing up the
// full quota stack.
type stubQuota struct {
	canSendErr error
	consumeErr error
	consumed   int
}

func (s *stubQuota) DailyStats(ctx context.Context, userID uuid.UUID) (*model.DailyStats, error) {
	return &model.DailyStats{}, nil
}

func (s *stubQuota) CanSend(ctx context.Context, userID uuid.UUID) error {
	return s.canSendErr
}

func (s *stubQuota) Consume(ctx context.Context, userID uuid.UUID) error {
	s.consumed++
	return s.consumeErr
}

func (s *stubQuota) SetRoleLimit(ctx context.Context, role model.Role, limit int) error { return nil }

func (s *stubQuota) ListRoleLimits(ctx context.Context) ([]model.RoleLimit, error) { return nil, nil }

func TestChatService_Send_NewSession(t *testing.T) {
	userID := uuid.New()

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	quota := &stubQuota{}

	assistantClient.On("CreateThread", mock.Anything).Return("thread_abc", nil)
	chatRepo.On("CreateSession", mock.Anything, mock.AnythingOfType("*model.ChatSession")).Return(nil)
	chatRepo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)
	assistantClient.On("Ask", mock.Anything, "thread_abc", "What is a lease agreement?").Return("A lease agreement is...", nil)
	chatRepo.On("TouchSession", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := NewChatService(chatRepo, quota, assistantClient)
	result, err := svc.Send(context.Background(), userID, nil, "What is a lease agreement?")

	assert.NoError(t, err)
	assert.Equal(t, "thread_abc", result.Session.ThreadID)
	assert.Equal(t, "What is a lease agreement?", result.Session.Title)
	assert.Equal(t, model.MessageRoleUser, result.UserMessage.Role)
	assert.Equal(t, model.MessageRoleAssistant, result.AssistantMessage.Role)
	assert.Equal(t, "A lease agreement is...", result.AssistantMessage.Content)
	assert.Equal(t, 1, quota.consumed)

	chatRepo.AssertExpectations(t)
	assistantClient.AssertExpectations(t)
}

func TestChatService_Send_LongFirstMessageTruncatesTitle(t *testing.T) {
	userID := uuid.New()
	long := strings.Repeat("a", 80)

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	quota := &stubQuota{}

	assistantClient.On("CreateThread", mock.Anything).Return("thread_abc", nil)
	chatRepo.On("CreateSession", mock.Anything, mock.AnythingOfType("*model.ChatSession")).Return(nil)
	chatRepo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)
	assistantClient.On("Ask", mock.Anything, "thread_abc", long).Return("ok", nil)
	chatRepo.On("TouchSession", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := NewChatService(chatRepo, quota, assistantClient)
	result, err := svc.Send(context.Background(), userID, nil, long)

	assert.NoError(t, err)
	assert.Len(t, result.Session.Title, model.SessionTitleMax)
	assert.True(t, strings.HasSuffix(result.Session.Title, "..."))
}

func TestChatService_Send_QuotaExceededLeavesNoTrace(t *testing.T) {
	userID := uuid.New()

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	quota := &stubQuota{canSendErr: errors.ErrQuotaExceeded}

	svc := NewChatService(chatRepo, quota, assistantClient)
	_, err := svc.Send(context.Background(), userID, nil, "hello")

	// An exhausted budget is rejected up front: no thread, no session, no
	// persisted message, nothing spent.
	assert.ErrorIs(t, err, errors.ErrQuotaExceeded)
	assistantClient.AssertNotCalled(t, "CreateThread", mock.Anything)
	assistantClient.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	chatRepo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	chatRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	assert.Equal(t, 0, quota.consumed)
}

func TestChatService_Send_BudgetExhaustedBetweenCheckAndCharge(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	// The pre-check passes but a concurrent send spends the last unit before
	// the atomic charge; the charge is authoritative and the assistant is
	// never called.
	quota := &stubQuota{consumeErr: errors.ErrQuotaExceeded}

	chatRepo.On("FindSessionByID", mock.Anything, sessionID).Return(&model.ChatSession{
		ID: sessionID, UserID: userID, ThreadID: "thread_abc",
	}, nil)
	chatRepo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)

	svc := NewChatService(chatRepo, quota, assistantClient)
	_, err := svc.Send(context.Background(), userID, &sessionID, "hello")

	assert.ErrorIs(t, err, errors.ErrQuotaExceeded)
	assistantClient.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	chatRepo.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestChatService_Send_QuotaChargedDespiteAssistantFailure(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	quota := &stubQuota{}

	chatRepo.On("FindSessionByID", mock.Anything, sessionID).Return(&model.ChatSession{
		ID: sessionID, UserID: userID, ThreadID: "thread_abc",
	}, nil)
	chatRepo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(nil)
	assistantClient.On("Ask", mock.Anything, "thread_abc", "hello").Return("", errors.ErrAssistantTimeout)

	svc := NewChatService(chatRepo, quota, assistantClient)
	_, err := svc.Send(context.Background(), userID, &sessionID, "hello")

	assert.ErrorIs(t, err, errors.ErrAssistantTimeout)
	assert.Equal(t, 1, quota.consumed)
	chatRepo.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything)
}

func TestChatService_Send_OtherUsersSessionLooksMissing(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	chatRepo := new(MockChatRepository)
	assistantClient := new(MockAssistant)
	quota := &stubQuota{}

	chatRepo.On("FindSessionByID", mock.Anything, sessionID).Return(&model.ChatSession{
		ID: sessionID, UserID: uuid.New(), ThreadID: "thread_abc",
	}, nil)

	svc := NewChatService(chatRepo, quota, assistantClient)
	_, err := svc.Send(context.Background(), userID, &sessionID, "hello")

	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	assert.Equal(t, 0, quota.consumed)
}

func TestChatService_Messages(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	t.Run("owned session returns transcript", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindSessionByID", mock.Anything, sessionID).Return(&model.ChatSession{ID: sessionID, UserID: userID}, nil)
		chatRepo.On("ListMessagesBySession", mock.Anything, sessionID).Return([]model.ChatMessage{
			{SessionID: sessionID, Role: model.MessageRoleUser, Content: "q"},
			{SessionID: sessionID, Role: model.MessageRoleAssistant, Content: "a"},
		}, nil)

		svc := NewChatService(chatRepo, &stubQuota{}, new(MockAssistant))
		messages, err := svc.Messages(context.Background(), userID, sessionID)

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
	})

	t.Run("missing session", func(t *testing.T) {
		chatRepo := new(MockChatRepository)
		chatRepo.On("FindSessionByID", mock.Anything, sessionID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewChatService(chatRepo, &stubQuota{}, new(MockAssistant))
		_, err := svc.Messages(context.Background(), userID, sessionID)

		assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	})
}

func TestChatService_DeleteHistory(t *testing.T) {
	userID := uuid.New()

	chatRepo := new(MockChatRepository)
	chatRepo.On("DeleteAllForUser", mock.Anything, userID).Return(nil)

	svc := NewChatService(chatRepo, &stubQuota{}, new(MockAssistant))
	err := svc.DeleteHistory(context.Background(), userID)

	assert.NoError(t, err)
	chatRepo.AssertExpectations(t)
}
