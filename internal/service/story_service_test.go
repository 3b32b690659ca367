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

type storyFixture struct {
	storyRepo    *MockStoryRepo
	categoryRepo *MockCategoryRepo
	configRepo   *MockSystemConfigRepo
	invalidator  *recordingInvalidator
	svc          *StoryService
}

type recordingInvalidator struct {
	storyIDs []uint
}

func (r *recordingInvalidator) InvalidateForStory(storyID uint) {
	r.storyIDs = append(r.storyIDs, storyID)
}

func newStoryFixture() *storyFixture {
	f := &storyFixture{
		storyRepo:    new(MockStoryRepo),
		categoryRepo: new(MockCategoryRepo),
		configRepo:   new(MockSystemConfigRepo),
		invalidator:  new(recordingInvalidator),
	}
	f.svc = NewStoryService(f.storyRepo, f.categoryRepo, f.configRepo, f.invalidator)
	return f
}

func (f *storyFixture) expectDefaultConstraints() {
	f.configRepo.On("Get").Return(nil, apperrors.ErrNotFound)
}

func validStoryInput() StoryInput {
	return StoryInput{
		Title:      "The River",
		Author:     "A. Writer",
		MediaURL:   "https://cdn.example.com/river.mp4",
		Subtitles:  []string{"line one", "line two"},
		CategoryID: 2,
		QuizItems: []QuizItemInput{
			{Question: "Q1", CorrectAnswer: "blue", Choices: []string{"blue", "red", "green"}},
		},
	}
}

func TestStoryCreate_PersistsNestedQuiz(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2, Name: "Science"}, nil)
	f.storyRepo.On("Create", mock.MatchedBy(func(s *entity.Story) bool {
		return s.Title == "The River" &&
			len(s.QuizItems) == 1 &&
			s.QuizItems[0].QuizNumber == 1 &&
			len(s.QuizItems[0].Choices) == 3 &&
			s.QuizItems[0].Choices[2].Position == 2
	})).Return(nil)

	story, err := f.svc.Create(validStoryInput())
	require.NoError(t, err)
	assert.Equal(t, "The River", story.Title)
	f.storyRepo.AssertExpectations(t)
}

func TestStoryCreate_UnknownCategory(t *testing.T) {
	f := newStoryFixture()
	f.categoryRepo.On("GetByID", uint(2)).Return(nil, apperrors.ErrNotFound)

	_, err := f.svc.Create(validStoryInput())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	f.storyRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestStoryCreate_CorrectAnswerMustBeAChoice(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2}, nil)

	input := validStoryInput()
	input.QuizItems[0].CorrectAnswer = "yellow"

	_, err := f.svc.Create(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStoryCreate_ChoiceCountBounds(t *testing.T) {
	f := newStoryFixture()
	f.configRepo.On("Get").Return(&entity.SystemConfig{MinChoices: 3, MaxChoices: 4, DefaultChoices: 4}, nil)
	f.categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2}, nil)

	input := validStoryInput()
	input.QuizItems[0].Choices = []string{"blue", "red"} // below configured minimum

	_, err := f.svc.Create(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStoryCreate_RejectsDuplicateChoices(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2}, nil)

	input := validStoryInput()
	input.QuizItems[0].Choices = []string{"blue", "blue", "red"}

	_, err := f.svc.Create(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStoryCreate_NoQuizIsValid(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2}, nil)
	f.storyRepo.On("Create", mock.MatchedBy(func(s *entity.Story) bool {
		return len(s.QuizItems) == 0
	})).Return(nil)

	input := validStoryInput()
	input.QuizItems = nil

	_, err := f.svc.Create(input)
	require.NoError(t, err)
}

func TestStoryUpdate_ReplacesQuizWhenProvided(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.storyRepo.On("GetByID", uint(7)).Return(&entity.Story{ID: 7, Title: "Old", CategoryID: 2}, nil)
	f.storyRepo.On("Update", mock.Anything).Return(nil)
	f.storyRepo.On("ReplaceQuiz", uint(7), mock.MatchedBy(func(items []entity.QuizItem) bool {
		return len(items) == 1 && items[0].QuizNumber == 1
	})).Return(nil)
	f.storyRepo.On("GetWithQuiz", uint(7)).Return(&entity.Story{ID: 7, Title: "The River"}, nil)

	_, err := f.svc.Update(7, validStoryInput())
	require.NoError(t, err)
	f.storyRepo.AssertExpectations(t)
}

func TestStoryUpdate_KeepsQuizWhenOmitted(t *testing.T) {
	f := newStoryFixture()
	f.storyRepo.On("GetByID", uint(7)).Return(&entity.Story{ID: 7, Title: "Old", CategoryID: 2}, nil)
	f.storyRepo.On("Update", mock.Anything).Return(nil)
	f.storyRepo.On("GetWithQuiz", uint(7)).Return(&entity.Story{ID: 7}, nil)

	input := validStoryInput()
	input.QuizItems = nil

	_, err := f.svc.Update(7, input)
	require.NoError(t, err)
	f.storyRepo.AssertNotCalled(t, "ReplaceQuiz", mock.Anything, mock.Anything)
}

func TestStoryUpdate_InvalidQuizWritesNothing(t *testing.T) {
	f := newStoryFixture()
	f.expectDefaultConstraints()
	f.storyRepo.On("GetByID", uint(7)).Return(&entity.Story{ID: 7, Title: "Old", CategoryID: 2}, nil)

	input := validStoryInput()
	input.QuizItems[0].CorrectAnswer = "yellow" // not among the choices

	_, err := f.svc.Update(7, input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// A rejected update must not leave half-applied field changes behind.
	f.storyRepo.AssertNotCalled(t, "Update", mock.Anything)
	f.storyRepo.AssertNotCalled(t, "ReplaceQuiz", mock.Anything, mock.Anything)
}

func TestStoryDelete_DropsCodeCache(t *testing.T) {
	f := newStoryFixture()
	f.storyRepo.On("GetByID", uint(9)).Return(&entity.Story{ID: 9}, nil)
	f.storyRepo.On("Delete", uint(9)).Return(nil)

	require.NoError(t, f.svc.Delete(9))
	assert.Equal(t, []uint{9}, f.invalidator.storyIDs)
}

func TestStoryDelete_UnknownStorySkipsInvalidation(t *testing.T) {
	f := newStoryFixture()
	f.storyRepo.On("GetByID", uint(9)).Return(nil, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(9), apperrors.ErrNotFound)
	assert.Empty(t, f.invalidator.storyIDs)
}

func TestStoryList_ClampsPagination(t *testing.T) {
	f := newStoryFixture()
	f.storyRepo.On("List", repository.StoryFilters{}, 20, 0).
		Return([]entity.Story{}, int64(0), nil)

	_, _, err := f.svc.List(repository.StoryFilters{}, -3, 5000)
	require.NoError(t, err)
	f.storyRepo.AssertExpectations(t)
}

func TestUpdateQuizConstraints_Validation(t *testing.T) {
	f := newStoryFixture()

	_, err := f.svc.UpdateQuizConstraints(1, 6, 4)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.UpdateQuizConstraints(4, 2, 4)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.UpdateQuizConstraints(2, 4, 6)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateQuizConstraints_SeedsMissingRow(t *testing.T) {
	f := newStoryFixture()
	f.configRepo.On("Get").Return(nil, apperrors.ErrNotFound)
	f.configRepo.On("Save", mock.MatchedBy(func(c *entity.SystemConfig) bool {
		return c.MinChoices == 2 && c.MaxChoices == 5 && c.DefaultChoices == 3
	})).Return(nil)

	cfg, err := f.svc.UpdateQuizConstraints(2, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxChoices)
}
