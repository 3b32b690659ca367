package entity

import (
	"time"

	"gorm.io/gorm"
)

// Category groups stories for the teacher UI.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:500;not null;default:''" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the GORM table name.
func (Category) TableName() string {
	return "categories"
}
