package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legalai/internal/model"
)

// ChatRepository defines persistence for chat sessions and their append-only
// messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *model.ChatSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.ChatSession, error)
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error)
	TouchSession(ctx context.Context, id uuid.UUID) error
	ListRecentSessions(ctx context.Context, limit int) ([]model.ChatSession, error)
	CountSessions(ctx context.Context) (int64, error)
	CountSessionsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)

	CreateMessage(ctx context.Context, message *model.ChatMessage) error
	ListMessagesBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error)

	// DeleteAllForUser removes every message and session belonging to the
	// user inside one transaction.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// CreateSession creates a new chat session.
func (r *chatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindSessionByID finds a session by ID.
func (r *chatRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessionsByUser lists a user's sessions, most recently active first.
func (r *chatRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// TouchSession bumps the session's updated_at so history sorts by activity.
func (r *chatRepository) TouchSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// ListRecentSessions returns the newest sessions across all users.
func (r *chatRepository) ListRecentSessions(ctx context.Context, limit int) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountSessions returns the total number of sessions.
func (r *chatRepository) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ChatSession{}).Count(&n).Error
	return n, err
}

// CountSessionsCreatedBetween counts sessions created in [start, end).
func (r *chatRepository) CountSessionsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("created_at >= ? AND created_at < ?", start, end).Count(&n).Error
	return n, err
}

// CreateMessage appends a message to a session.
func (r *chatRepository) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessagesBySession lists a session's messages oldest first.
func (r *chatRepository) ListMessagesBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteAllForUser deletes the user's messages and sessions atomically.
func (r *chatRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&model.ChatSession{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("session_id IN (?)", sub).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.ChatSession{}).Error
	})
}
