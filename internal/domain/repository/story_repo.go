package repository

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
)

// StoryFilters defines search filters for listing stories.
type StoryFilters struct {
	CategoryID uint   // 0 = all categories
	Search     string // matches title/author/description
}

// StoryRepository defines persistence operations for stories and their
// nested quiz items.
type StoryRepository interface {
	// Create persists the story together with any nested quiz items and
	// choices in one transaction.
	Create(story *entity.Story) error
	GetByID(id uint) (*entity.Story, error)
	// GetWithQuiz returns the story with quiz items (ordered by
	// quiz_number) and their choices (ordered by position) preloaded.
	GetWithQuiz(id uint) (*entity.Story, error)
	List(filters StoryFilters, limit, offset int) ([]entity.Story, int64, error)
	Update(story *entity.Story) error
	// ReplaceQuiz swaps the story's quiz items and choices for the given
	// set in one transaction.
	ReplaceQuiz(storyID uint, items []entity.QuizItem) error
	// Delete soft-deletes the story.
	Delete(id uint) error
	// CountByCategory returns the number of non-deleted stories
	// referencing the category.
	CountByCategory(categoryID uint) (int64, error)
	CountCreatedBetween(from, to time.Time) (int64, error)
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id uint) (*entity.Category, error)
	List() ([]entity.Category, error)
	Update(category *entity.Category) error
	// Delete soft-deletes the category.
	Delete(id uint) error
}
