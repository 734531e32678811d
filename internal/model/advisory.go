package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdvisoryStatus represents the review state of an advisory request.
type AdvisoryStatus string

const (
	AdvisoryStatusPending  AdvisoryStatus = "pending"
	AdvisoryStatusReviewed AdvisoryStatus = "reviewed"
)

// Advisory is a human-reviewed legal question submitted by a user, distinct
// from the automated chat assistant. Response, RespondedAt and RespondedBy are
// jointly null while pending and jointly set once reviewed; the transition is
// one-directional.
type Advisory struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index"`
	FullName    string         `json:"full_name" gorm:"size:255;not null"`
	Email       string         `json:"email" gorm:"size:255;not null"`
	Subject     string         `json:"subject" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Status      AdvisoryStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Response    *string        `json:"response,omitempty" gorm:"type:text"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	RespondedBy *uuid.UUID     `json:"responded_by,omitempty" gorm:"type:char(36)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (Advisory) TableName() string { return "advisories" }

// BeforeCreate sets the UUID before creating the record.
func (a *Advisory) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
