package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User status lifecycle. Authentication is delegated to an external
// identity provider; this record mirrors staff status for the UI and
// for access checks.
const (
	UserStatusInvited   = "invited"
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User is a teacher/admin account shadow record keyed by email.
type User struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Email  string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Name   string `gorm:"size:100;not null;default:''" json:"name"`
	Status string `gorm:"size:20;not null;default:'invited'" json:"status"`

	// InviteTokenHash holds the bcrypt hash of the pending invite token;
	// cleared once the invite is accepted.
	InviteTokenHash string     `gorm:"size:100;not null;default:''" json:"-"`
	InviteExpiresAt *time.Time `gorm:"type:timestamp" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the GORM table name.
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the user may access the staff surface.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsInvited reports whether the user still has a pending invitation.
func (u *User) IsInvited() bool {
	return u.Status == UserStatusInvited
}

// SetInviteToken stores the bcrypt hash of a fresh invite token together
// with its expiry.
func (u *User) SetInviteToken(token string, expiresAt time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.InviteTokenHash = string(hash)
	u.InviteExpiresAt = &expiresAt
	return nil
}

// CheckInviteToken verifies a presented invite token against the stored
// hash and expiry.
func (u *User) CheckInviteToken(token string) bool {
	if u.InviteTokenHash == "" || u.InviteExpiresAt == nil {
		return false
	}
	if time.Now().After(*u.InviteExpiresAt) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.InviteTokenHash), []byte(token)) == nil
}

// IsValidUserStatus reports whether s is one of the known lifecycle states.
func IsValidUserStatus(s string) bool {
	switch s {
	case UserStatusInvited, UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}
