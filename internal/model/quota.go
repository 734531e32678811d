package model

import (
	"time"

	"github.com/google/uuid"
)

// CounterDateLayout is the calendar-date format used as the daily counter key.
// The day boundary is the UTC calendar date at the moment of the check.
const CounterDateLayout = "2006-01-02"

// Today returns the current UTC calendar date in CounterDateLayout.
func Today() string {
	return time.Now().UTC().Format(CounterDateLayout)
}

// RoleLimit holds the daily chat message budget for a role. One row per role,
// admin-editable.
type RoleLimit struct {
	Role              Role      `json:"role" gorm:"type:varchar(20);primaryKey"`
	DailyMessageLimit int       `json:"daily_message_limit" gorm:"not null"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (RoleLimit) TableName() string { return "role_limits" }

// MessageCount tracks messages sent by one user on one calendar day.
// Rows are created lazily on the first check of the day and never decremented.
type MessageCount struct {
	ID        uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:uniq_user_date,priority:1"`
	Date      string    `json:"date" gorm:"type:char(10);not null;uniqueIndex:uniq_user_date,priority:2"`
	Count     int       `json:"count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (MessageCount) TableName() string { return "message_counts" }

// DailyStats is the per-user quota snapshot returned to the client.
type DailyStats struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}
