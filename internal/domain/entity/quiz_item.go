package entity

import (
	"time"
)

// QuizItem is one question belonging to a story. The correct answer is
// stored as the answer text; one of the item's choices must carry the
// same text.
type QuizItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoryID       uint      `gorm:"not null;index" json:"story_id"`
	QuizNumber    int       `gorm:"not null" json:"quiz_number"`
	Question      string    `gorm:"size:500;not null" json:"question"`
	CorrectAnswer string    `gorm:"size:300;not null" json:"-"` // hidden from students
	Choices       []Choice  `gorm:"foreignKey:QuizItemID" json:"choices,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (QuizItem) TableName() string {
	return "quiz_items"
}

// IsCorrect reports whether the selected answer text matches the stored
// correct answer. Comparison is exact string equality: the write path
// (scoring) and the read path (results) must agree, so both call this.
func (q *QuizItem) IsCorrect(selectedAnswer string) bool {
	return selectedAnswer == q.CorrectAnswer
}

// HasChoice reports whether any choice carries the given text.
func (q *QuizItem) HasChoice(text string) bool {
	for _, c := range q.Choices {
		if c.Text == text {
			return true
		}
	}
	return false
}

// Choice is one free-text option of a quiz item.
type Choice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuizItemID uint      `gorm:"not null;index" json:"quiz_item_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Text       string    `gorm:"size:300;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Choice) TableName() string {
	return "choices"
}
