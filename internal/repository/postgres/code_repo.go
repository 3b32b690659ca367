package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// CodeRepo implements repository.CodeRepository.
type CodeRepo struct {
	db *gorm.DB
}

// NewCodeRepo creates a new access-code repository.
func NewCodeRepo(db *gorm.DB) *CodeRepo {
	return &CodeRepo{db: db}
}

// Create persists a new code.
func (r *CodeRepo) Create(code *entity.Code) error {
	return r.db.Create(code).Error
}

// GetByID returns a code by ID.
func (r *CodeRepo) GetByID(id uint) (*entity.Code, error) {
	var code entity.Code
	err := r.db.First(&code, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &code, nil
}

// GetActiveByCode looks up an active code by its normalized string with
// the story and quiz preloaded. The caller is expected to have
// uppercased the input already.
func (r *CodeRepo) GetActiveByCode(code string) (*entity.Code, error) {
	var row entity.Code
	err := r.db.
		Preload("Story").
		Preload("Story.QuizItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_items.quiz_number ASC")
		}).
		Preload("Story.QuizItems.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.position ASC")
		}).
		Where("code = ? AND status = ?", code, entity.CodeStatusActive).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	// A code whose story was soft-deleted no longer grants access.
	if row.Story == nil {
		return nil, apperrors.ErrNotFound
	}
	return &row, nil
}

// Exists reports whether any non-deleted code row carries the string.
func (r *CodeRepo) Exists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Code{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ListByStory returns all non-deleted codes bound to the story.
func (r *CodeRepo) ListByStory(storyID uint) ([]entity.Code, error) {
	var codes []entity.Code
	err := r.db.Where("story_id = ?", storyID).Order("id DESC").Find(&codes).Error
	return codes, err
}

// UpdateStatus flips a code between active and inactive.
func (r *CodeRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.Code{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete soft-deletes the code.
func (r *CodeRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Code{}, id).Error
}

// CountCreatedBetween counts codes created in [from, to).
func (r *CodeRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Code{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
