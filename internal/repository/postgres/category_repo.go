package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// CategoryRepo implements repository.CategoryRepository.
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persists a new category.
func (r *CategoryRepo) Create(category *entity.Category) error {
	return r.db.Create(category).Error
}

// GetByID returns a category by ID.
func (r *CategoryRepo) GetByID(id uint) (*entity.Category, error) {
	var category entity.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List returns all non-deleted categories.
func (r *CategoryRepo) List() ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// Update saves the category.
func (r *CategoryRepo) Update(category *entity.Category) error {
	return r.db.Save(category).Error
}

// Delete soft-deletes the category. The in-use guard lives in the
// service, which checks the story count first.
func (r *CategoryRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Category{}, id).Error
}
