package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTitleMax is the maximum stored session title length in characters.
// Longer first messages are truncated to 47 characters plus an ellipsis.
const SessionTitleMax = 50

// SessionTitle derives a session title from the first message text. It counts
// runes, not bytes, so accented text is never cut mid-character.
func SessionTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > SessionTitleMax {
		return string(runes[:SessionTitleMax-3]) + "..."
	}
	return firstMessage
}

// ChatSession is a persisted, titled conversation thread tied to one external
// assistant conversation handle.
type ChatSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	ThreadID  string    `json:"thread_id" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (ChatSession) TableName() string { return "chat_sessions" }

// BeforeCreate sets the UUID before creating the record.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ChatMessage is one append-only message inside a session, ordered by
// creation time.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	SessionID uuid.UUID   `json:"session_id" gorm:"type:char(36);not null;index"`
	Role      MessageRole `json:"role" gorm:"type:varchar(16);not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides the default pluralization.
func (ChatMessage) TableName() string { return "chat_messages" }

// BeforeCreate sets the UUID before creating the record.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
