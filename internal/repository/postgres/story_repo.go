package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// StoryRepo implements repository.StoryRepository.
type StoryRepo struct {
	db *gorm.DB
}

// NewStoryRepo creates a new story repository.
func NewStoryRepo(db *gorm.DB) *StoryRepo {
	return &StoryRepo{db: db}
}

// Create persists the story with nested quiz items and choices. GORM
// inserts the associations in the same transaction as the story row.
func (r *StoryRepo) Create(story *entity.Story) error {
	return r.db.Create(story).Error
}

// GetByID returns a story by ID.
func (r *StoryRepo) GetByID(id uint) (*entity.Story, error) {
	var story entity.Story
	err := r.db.First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// GetWithQuiz returns the story with quiz items and choices preloaded,
// in presentation order.
func (r *StoryRepo) GetWithQuiz(id uint) (*entity.Story, error) {
	var story entity.Story
	err := r.db.
		Preload("QuizItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_items.quiz_number ASC")
		}).
		Preload("QuizItems.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.position ASC")
		}).
		Preload("Category").
		First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// List returns stories matching the filters with a total count.
func (r *StoryRepo) List(filters repository.StoryFilters, limit, offset int) ([]entity.Story, int64, error) {
	var stories []entity.Story
	var total int64

	query := r.db.Model(&entity.Story{})

	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR description ILIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Category").
		Limit(limit).Offset(offset).
		Order("id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}

	return stories, total, nil
}

// Update saves the story's own fields.
func (r *StoryRepo) Update(story *entity.Story) error {
	return r.db.Omit("QuizItems", "Category").Save(story).Error
}

// ReplaceQuiz swaps the story's quiz items and choices for the given set.
// Old items are removed outright: answers keep their quiz_item_id, so a
// replaced quiz shows up as score drift on the results read path rather
// than silently rescoring history.
func (r *StoryRepo) ReplaceQuiz(storyID uint, items []entity.QuizItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_item_id IN (?)",
			tx.Model(&entity.QuizItem{}).Select("id").Where("story_id = ?", storyID),
		).Delete(&entity.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("story_id = ?", storyID).Delete(&entity.QuizItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].StoryID = storyID
		}
		return tx.Create(&items).Error
	})
}

// Delete soft-deletes the story.
func (r *StoryRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Story{}, id).Error
}

// CountByCategory counts non-deleted stories in the category.
func (r *StoryRepo) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Story{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountCreatedBetween counts stories created in [from, to).
func (r *StoryRepo) CountCreatedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Story{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
