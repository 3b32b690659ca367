package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

func TestCategoryCreate_TrimsName(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	svc := NewCategoryService(categoryRepo, new(MockStoryRepo))

	categoryRepo.On("Create", mock.MatchedBy(func(c *entity.Category) bool {
		return c.Name == "Science"
	})).Return(nil)

	cat, err := svc.Create("  Science  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Science", cat.Name)
}

func TestCategoryCreate_RejectsEmptyName(t *testing.T) {
	svc := NewCategoryService(new(MockCategoryRepo), new(MockStoryRepo))

	_, err := svc.Create("   ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCategoryDelete_RefusesWhileInUse(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	storyRepo := new(MockStoryRepo)
	svc := NewCategoryService(categoryRepo, storyRepo)

	categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2, Name: "Science"}, nil)
	storyRepo.On("CountByCategory", uint(2)).Return(int64(3), nil)

	err := svc.Delete(2)
	assert.ErrorIs(t, err, repository.ErrCategoryInUse)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCategoryDelete_EmptyCategory(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	storyRepo := new(MockStoryRepo)
	svc := NewCategoryService(categoryRepo, storyRepo)

	categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2}, nil)
	storyRepo.On("CountByCategory", uint(2)).Return(int64(0), nil)
	categoryRepo.On("Delete", uint(2)).Return(nil)

	require.NoError(t, svc.Delete(2))
	categoryRepo.AssertExpectations(t)
}
