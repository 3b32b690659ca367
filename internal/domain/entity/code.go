package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Code status values.
const (
	CodeStatusActive   = "active"
	CodeStatusInactive = "inactive"
)

// MinCodeLength is the minimum accepted length for a student-entered code.
const MinCodeLength = 4

// Code is a short string distributed to students that grants access to
// exactly one story. Codes are stored uppercase and compared
// case-insensitively.
type Code struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"size:16;not null;index" json:"code"`
	StoryID   uint           `gorm:"not null;index" json:"story_id"`
	Story     *Story         `gorm:"foreignKey:StoryID" json:"story,omitempty"`
	Status    string         `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the GORM table name.
func (Code) TableName() string {
	return "codes"
}

// IsActive reports whether the code currently grants access.
func (c *Code) IsActive() bool {
	return c.Status == CodeStatusActive
}

// NormalizeCode uppercases and trims a student-entered code so that
// lookup and storage agree regardless of how the student typed it.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValidCodeInput reports whether a normalized code is alphanumeric and
// long enough to be looked up at all.
func IsValidCodeInput(code string) bool {
	if len(code) < MinCodeLength {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
