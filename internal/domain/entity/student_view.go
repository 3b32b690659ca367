package entity

import (
	"time"
)

// StudentStoryView records that a student identity opened a story
// through a code on a given device. The composite unique index on
// (code_id, story_id, full_name, section, device_id) guarantees at most
// one row per tuple; re-viewing bumps viewed_at via upsert.
type StudentStoryView struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CodeID   uint   `gorm:"not null;uniqueIndex:idx_views_identity" json:"code_id"`
	StoryID  uint   `gorm:"not null;uniqueIndex:idx_views_identity" json:"story_id"`
	FullName string `gorm:"size:100;not null;uniqueIndex:idx_views_identity" json:"full_name"`
	Section  string `gorm:"size:50;not null;uniqueIndex:idx_views_identity" json:"section"`
	DeviceID string `gorm:"size:64;not null;default:'';uniqueIndex:idx_views_identity" json:"device_id"`

	ViewedAt  time.Time `gorm:"not null" json:"viewed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (StudentStoryView) TableName() string {
	return "student_story_views"
}
