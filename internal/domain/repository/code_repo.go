package repository

import (
	"time"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
)

// CodeRepository defines persistence operations for access codes.
type CodeRepository interface {
	Create(code *entity.Code) error
	GetByID(id uint) (*entity.Code, error)
	// GetActiveByCode looks up an active, non-deleted code by its
	// normalized (uppercase) string, with the story and its quiz
	// preloaded. Returns apperrors.ErrNotFound when absent.
	GetActiveByCode(code string) (*entity.Code, error)
	// Exists reports whether any non-deleted code row carries the string,
	// regardless of status. Used to avoid collisions during generation.
	Exists(code string) (bool, error)
	ListByStory(storyID uint) ([]entity.Code, error)
	UpdateStatus(id uint, status string) error
	// Delete soft-deletes the code.
	Delete(id uint) error
	CountCreatedBetween(from, to time.Time) (int64, error)
}
