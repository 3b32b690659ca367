package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// CategoryService manages story categories.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	storyRepo    repository.StoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, storyRepo repository.StoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, storyRepo: storyRepo}
}

// Create validates and persists a new category.
func (s *CategoryService) Create(name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	category := &entity.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// List returns all categories.
func (s *CategoryService) List() ([]entity.Category, error) {
	return s.categoryRepo.List()
}

// Update renames a category.
func (s *CategoryService) Update(id uint, name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = strings.TrimSpace(description)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete soft-deletes a category, refusing while stories still
// reference it.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}

	count, err := s.storyRepo.CountByCategory(id)
	if err != nil {
		return fmt.Errorf("failed to count stories in category: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d stories still reference it", repository.ErrCategoryInUse, count)
	}

	return s.categoryRepo.Delete(id)
}
