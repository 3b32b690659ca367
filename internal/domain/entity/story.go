package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringArray is a custom type stored as JSONB. Used for the ordered
// subtitle lines of a story.
type StringArray []string

// Scan implements sql.Scanner for StringArray.
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer for StringArray.
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // empty JSON array instead of null
	}
	return json.Marshal(o)
}

// Story represents a video-based lesson with an optional quiz.
type Story struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:150;not null" json:"title"`
	Author      string         `gorm:"size:100;not null;default:''" json:"author"`
	Description string         `gorm:"size:1000;not null;default:''" json:"description"`
	MediaURL    string         `gorm:"size:500;not null;default:''" json:"media_url"`
	Subtitles   StringArray    `gorm:"type:jsonb;not null" json:"subtitles"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	QuizItems   []QuizItem     `gorm:"foreignKey:StoryID" json:"quiz_items,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the GORM table name.
func (Story) TableName() string {
	return "stories"
}

// QuizItemCount returns the number of quiz items loaded on the story.
func (s *Story) QuizItemCount() int {
	return len(s.QuizItems)
}

// HasQuiz reports whether the story carries at least one quiz item.
func (s *Story) HasQuiz() bool {
	return len(s.QuizItems) > 0
}
