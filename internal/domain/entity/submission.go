package entity

import (
	"time"

	"gorm.io/gorm"
)

// StudentSubmission is one student's complete set of answers to a
// story's quiz items. A partial unique index on
// (code_id, full_name, section) WHERE deleted_at IS NULL enforces the
// "at most one non-deleted submission per student identity" invariant
// at the storage layer; concurrent duplicates surface as a unique
// violation instead of slipping past an advisory check.
type StudentSubmission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CodeID   uint   `gorm:"not null;index" json:"code_id"`
	StoryID  uint   `gorm:"not null;index" json:"story_id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Section  string `gorm:"size:50;not null" json:"section"`
	DeviceID string `gorm:"size:64;not null;default:''" json:"device_id"`

	// Score is a cached denormalization: the count of answers whose
	// selected text equals the quiz item's correct answer at submit time.
	// Recomputable from Answers x QuizItems; the read path checks for drift.
	Score int `gorm:"not null;default:0" json:"score"`

	SubmittedAt time.Time      `gorm:"not null" json:"submitted_at"`
	Answers     []Answer       `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the GORM table name.
func (StudentSubmission) TableName() string {
	return "student_submissions"
}

// Answer stores the choice text a student selected for one quiz item.
// Correctness is derived at read time by comparing against the quiz
// item's current correct answer, not stored as a boolean.
type Answer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SubmissionID   uint      `gorm:"not null;index" json:"submission_id"`
	QuizItemID     uint      `gorm:"not null;index" json:"quiz_item_id"`
	SelectedAnswer string    `gorm:"size:300;not null" json:"selected_answer"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the GORM table name.
func (Answer) TableName() string {
	return "answers"
}
