package repository

import (
	"github.com/yourusername/storyquiz-api/internal/domain/entity"
)

// UserRepository defines persistence operations for staff mirror records.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	// GetByEmail returns the non-deleted user for the email, or
	// apperrors.ErrNotFound.
	GetByEmail(email string) (*entity.User, error)
	List() ([]entity.User, error)
	Update(user *entity.User) error
	UpdateStatus(email, status string) error
}

// SystemConfigRepository manages the single-row quiz-editing constraints.
type SystemConfigRepository interface {
	// Get returns the config row, or apperrors.ErrNotFound when the table
	// has not been seeded.
	Get() (*entity.SystemConfig, error)
	// Save creates or updates the single row.
	Save(cfg *entity.SystemConfig) error
}
