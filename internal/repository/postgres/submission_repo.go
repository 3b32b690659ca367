package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// SubmissionRepo implements repository.SubmissionRepository.
type SubmissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo creates a new submission repository.
func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Create persists the submission row inside the given transaction.
// The partial unique index idx_submissions_identity (code_id, full_name,
// section) WHERE deleted_at IS NULL turns a concurrent duplicate into a
// 23505, translated here to ErrDuplicateSubmission.
func (r *SubmissionRepo) Create(tx *gorm.DB, submission *entity.StudentSubmission) error {
	if err := tx.Omit("Answers").Create(submission).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: code #%d, %s (%s)",
				repository.ErrDuplicateSubmission, submission.CodeID, submission.FullName, submission.Section)
		}
		return err
	}
	return nil
}

// CreateAnswers persists the answer rows inside the given transaction.
func (r *SubmissionRepo) CreateAnswers(tx *gorm.DB, answers []entity.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return tx.Create(&answers).Error
}

// UpdateScore persists the computed score inside the given transaction.
func (r *SubmissionRepo) UpdateScore(tx *gorm.DB, submissionID uint, score int) error {
	return tx.Model(&entity.StudentSubmission{}).
		Where("id = ?", submissionID).
		Update("score", score).
		Error
}

// GetByIdentity returns the non-deleted submission for the identity tuple.
func (r *SubmissionRepo) GetByIdentity(codeID uint, fullName, section string) (*entity.StudentSubmission, error) {
	var submission entity.StudentSubmission
	err := r.db.Where("code_id = ? AND full_name = ? AND section = ?", codeID, fullName, section).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// GetWithAnswers preloads the submission's answers.
func (r *SubmissionRepo) GetWithAnswers(id uint) (*entity.StudentSubmission, error) {
	var submission entity.StudentSubmission
	err := r.db.Preload("Answers").First(&submission, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// ListByCode returns all non-deleted submissions for the code.
func (r *SubmissionRepo) ListByCode(codeID uint) ([]entity.StudentSubmission, error) {
	var submissions []entity.StudentSubmission
	err := r.db.Where("code_id = ?", codeID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// CountCreatedBetween counts submissions created in [from, to).
func (r *SubmissionRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entity.StudentSubmission{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// AverageScorePercent computes the arithmetic mean of per-submission
// percentages over [from, to). Each submission's percentage is
// score / (quiz items of its story) * 100, so a submission to a
// two-question story weighs the same as one to a ten-question story.
func (r *SubmissionRepo) AverageScorePercent(from, to time.Time) (float64, bool, error) {
	var avg *float64
	sql := `
	SELECT AVG(s.score * 100.0 / NULLIF(q.item_count, 0))
	FROM student_submissions s
	JOIN (
	    SELECT story_id, COUNT(*) AS item_count
	    FROM quiz_items
	    GROUP BY story_id
	) q ON q.story_id = s.story_id
	WHERE s.deleted_at IS NULL
	  AND s.created_at >= ? AND s.created_at < ?;`

	if err := r.db.Raw(sql, from, to).Scan(&avg).Error; err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
