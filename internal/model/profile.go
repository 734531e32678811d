package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access tier of a profile. It controls the daily message quota
// and feature visibility.
type Role string

const (
	RoleFree  Role = "free"
	RolePlus  Role = "plus"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFree, RolePlus, RoleAdmin:
		return true
	}
	return false
}

// Roles lists every known role. Used by seeding and limit administration.
func Roles() []Role {
	return []Role{RoleFree, RolePlus, RoleAdmin}
}

// Profile represents an authenticated user of the platform.
type Profile struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        *string   `json:"phone,omitempty" gorm:"size:50"`
	Address      *string   `json:"address,omitempty" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'free';index"`

	// Subscription state. SubscriptionEnd is only set while Role is plus;
	// PendingDowngrade may only be true while Role is plus.
	SubscriptionEnd  *time.Time `json:"subscription_end,omitempty"`
	PendingDowngrade bool       `json:"pending_downgrade" gorm:"default:false"`

	EmailNotifications bool    `json:"email_notifications" gorm:"default:true"`
	WeeklySummary      bool    `json:"weekly_summary" gorm:"default:false"`
	DarkMode           bool    `json:"dark_mode" gorm:"default:false"`
	AvatarURL          *string `json:"avatar_url,omitempty" gorm:"size:512"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SubscriptionExpired reports whether a plus subscription has lapsed. The
// role column may lag behind; reads reconcile it lazily.
func (p *Profile) SubscriptionExpired(now time.Time) bool {
	return p.Role == RolePlus && p.SubscriptionEnd != nil && p.SubscriptionEnd.Before(now)
}

// EffectiveRole returns the role after accounting for an expired
// subscription, without touching the database.
func (p *Profile) EffectiveRole(now time.Time) Role {
	if p.SubscriptionExpired(now) {
		return RoleFree
	}
	return p.Role
}

// BeforeCreate sets the UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave validates the role at the data-access boundary so no free-form
// role string ever reaches the database.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if !p.Role.Valid() {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	return nil
}
