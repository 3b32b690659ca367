package entity

import (
	"time"
)

// Defaults applied when the system_config row has not been seeded yet.
const (
	DefaultMinChoices     = 2
	DefaultMaxChoices     = 6
	DefaultChoicesPerItem = 4
)

// SystemConfig is a single-row table holding quiz-editing constraints.
type SystemConfig struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MinChoices     int       `gorm:"not null;default:2" json:"min_choices"`
	MaxChoices     int       `gorm:"not null;default:6" json:"max_choices"`
	DefaultChoices int       `gorm:"not null;default:4" json:"default_choices"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (SystemConfig) TableName() string {
	return "system_config"
}

// DefaultSystemConfig returns the fallback constraints used when no row
// has been seeded.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		MinChoices:     DefaultMinChoices,
		MaxChoices:     DefaultMaxChoices,
		DefaultChoices: DefaultChoicesPerItem,
	}
}

// AllowsChoiceCount reports whether n choices per quiz item is within
// the configured bounds.
func (c *SystemConfig) AllowsChoiceCount(n int) bool {
	return n >= c.MinChoices && n <= c.MaxChoices
}
