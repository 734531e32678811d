package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/assistant"
	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// SendResult is what one chat turn produces.
type SendResult struct {
	Session          *model.ChatSession `json:"session"`
	UserMessage      *model.ChatMessage `json:"user_message"`
	AssistantMessage *model.ChatMessage `json:"assistant_message"`
}

// ChatService runs AI chat turns and owns session history. A send checks the
// daily quota before touching any state, then charges it atomically after the
// user message is persisted and before the assistant is called, so an
// exhausted budget creates no session and never burns an upstream call.
type ChatService interface {
	// Send relays one user message. A nil sessionID starts a new session
	// titled after the message.
	Send(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, content string) (*SendResult, error)
	Sessions(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error)
	Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]model.ChatMessage, error)
	// DeleteHistory removes every session and message of the user.
	DeleteHistory(ctx context.Context, userID uuid.UUID) error
}

type chatService struct {
	chatRepo  repository.ChatRepository
	quota     QuotaService
	assistant assistant.Client
}

// NewChatService creates a new chat service.
func NewChatService(chatRepo repository.ChatRepository, quota QuotaService, client assistant.Client) ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		quota:     quota,
		assistant: client,
	}
}

// Send runs one chat turn: check the quota, resolve or create the session,
// persist the user message, charge the quota, then ask the assistant and
// persist its reply.
func (s *chatService) Send(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, content string) (*SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty message")
	}

	if err := s.quota.CanSend(ctx, userID); err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, userID, sessionID, content)
	if err != nil {
		return nil, err
	}

	userMsg := &model.ChatMessage{
		SessionID: session.ID,
		Role:      model.MessageRoleUser,
		Content:   content,
	}
	if err := s.chatRepo.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	if err := s.quota.Consume(ctx, userID); err != nil {
		return nil, err
	}

	reply, err := s.assistant.Ask(ctx, session.ThreadID, content)
	if err != nil {
		return nil, err
	}

	assistantMsg := &model.ChatMessage{
		SessionID: session.ID,
		Role:      model.MessageRoleAssistant,
		Content:   reply,
	}
	if err := s.chatRepo.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}
	if err := s.chatRepo.TouchSession(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	return &SendResult{Session: session, UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// resolveSession loads and authorizes an existing session, or starts a new
// one backed by a fresh assistant thread.
func (s *chatService) resolveSession(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, firstMessage string) (*model.ChatSession, error) {
	if sessionID != nil {
		session, err := s.ownedSession(ctx, userID, *sessionID)
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	threadID, err := s.assistant.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	session := &model.ChatSession{
		UserID:   userID,
		Title:    model.SessionTitle(firstMessage),
		ThreadID: threadID,
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// ownedSession loads a session and hides other users' sessions behind the
// same not-found error as missing ones.
func (s *chatService) ownedSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.ChatSession, error) {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session.UserID != userID {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// Sessions lists the user's sessions, most recently active first.
func (s *chatService) Sessions(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	return s.chatRepo.ListSessionsByUser(ctx, userID)
}

// Messages returns the full transcript of one owned session.
func (s *chatService) Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessagesBySession(ctx, sessionID)
}

// DeleteHistory removes all chat data for the user. Daily counters are kept,
// clearing history does not refund quota.
func (s *chatService) DeleteHistory(ctx context.Context, userID uuid.UUID) error {
	return s.chatRepo.DeleteAllForUser(ctx, userID)
}
