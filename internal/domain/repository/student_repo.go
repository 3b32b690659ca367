package repository

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"gorm.io/gorm"
)

// StudentLogRow is one line of the per-code student log: a view joined
// with the matching submission (if any) on (full_name, section).
type StudentLogRow struct {
	FullName     string     `json:"full_name"`
	Section      string     `json:"section"`
	DeviceID     string     `json:"device_id"`
	ViewedAt     time.Time  `json:"viewed_at"`
	SubmissionID *uint      `json:"submission_id,omitempty"`
	Score        *int       `json:"score,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}

// ViewRepository defines persistence operations for student story views.
type ViewRepository interface {
	// Upsert inserts the view or, when the composite identity tuple
	// already exists, bumps viewed_at to the new timestamp.
	Upsert(view *entity.StudentStoryView) error
	// Exists checks for a view matching the full identity tuple.
	Exists(codeID, storyID uint, fullName, section, deviceID string) (bool, error)
	// ExistsAnyDevice checks without the device ID, for sessions recorded
	// before device tracking existed.
	ExistsAnyDevice(codeID, storyID uint, fullName, section string) (bool, error)
	ListByCode(codeID uint) ([]entity.StudentStoryView, error)
	// StudentLog joins views with submissions for the code in SQL.
	StudentLog(codeID uint) ([]StudentLogRow, error)
}

// SubmissionRepository defines persistence operations for quiz
// submissions and their answers.
type SubmissionRepository interface {
	// Create persists the submission row inside the given transaction.
	// A violation of the partial unique identity index is translated to
	// ErrDuplicateSubmission.
	Create(tx *gorm.DB, submission *entity.StudentSubmission) error
	// CreateAnswers persists the answer rows inside the given transaction.
	CreateAnswers(tx *gorm.DB, answers []entity.Answer) error
	// UpdateScore persists the computed score inside the given transaction.
	UpdateScore(tx *gorm.DB, submissionID uint, score int) error
	// GetByIdentity returns the non-deleted submission for the
	// (code, full name, section) tuple, or apperrors.ErrNotFound.
	GetByIdentity(codeID uint, fullName, section string) (*entity.StudentSubmission, error)
	// GetWithAnswers preloads the submission's answers.
	GetWithAnswers(id uint) (*entity.StudentSubmission, error)
	ListByCode(codeID uint) ([]entity.StudentSubmission, error)
	CountCreatedBetween(from, to time.Time) (int64, error)
	// AverageScorePercent returns the arithmetic mean over submissions in
	// range of (score / story quiz item count * 100). Each submission
	// weighs the same regardless of how many questions its story has.
	// Returns (0, false, nil) when no submissions fall in range.
	AverageScorePercent(from, to time.Time) (float64, bool, error)
}
