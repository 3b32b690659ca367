package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// QuizItemInput is one quiz question as submitted by a teacher.
type QuizItemInput struct {
	Question      string   `json:"question" binding:"required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Choices       []string `json:"choices" binding:"required"`
}

// StoryInput carries story fields for create/update.
type StoryInput struct {
	Title       string          `json:"title" binding:"required"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	MediaURL    string          `json:"media_url"`
	Subtitles   []string        `json:"subtitles"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	QuizItems   []QuizItemInput `json:"quiz_items"`
}

// CodeInvalidator drops cached code resolutions for a story. Satisfied
// by CodeService; nil disables invalidation.
type CodeInvalidator interface {
	InvalidateForStory(storyID uint)
}

// StoryService manages stories, their quizzes and the quiz-editing
// constraints.
type StoryService struct {
	storyRepo    repository.StoryRepository
	categoryRepo repository.CategoryRepository
	configRepo   repository.SystemConfigRepository
	codes        CodeInvalidator
}

// NewStoryService creates a new story service.
func NewStoryService(
	storyRepo repository.StoryRepository,
	categoryRepo repository.CategoryRepository,
	configRepo repository.SystemConfigRepository,
	codes CodeInvalidator,
) *StoryService {
	return &StoryService{
		storyRepo:    storyRepo,
		categoryRepo: categoryRepo,
		configRepo:   configRepo,
		codes:        codes,
	}
}

// quizConstraints loads the system config, falling back to defaults when
// the row is missing or unreadable.
func (s *StoryService) quizConstraints() *entity.SystemConfig {
	cfg, err := s.configRepo.Get()
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[StoryService] system config read failed, using defaults: %v", err)
		}
		return entity.DefaultSystemConfig()
	}
	return cfg
}

// GetQuizConstraints exposes the editing bounds to the authoring UI.
func (s *StoryService) GetQuizConstraints() *entity.SystemConfig {
	return s.quizConstraints()
}

// UpdateQuizConstraints persists new choice bounds.
func (s *StoryService) UpdateQuizConstraints(minChoices, maxChoices, defaultChoices int) (*entity.SystemConfig, error) {
	if minChoices < 2 {
		return nil, fmt.Errorf("%w: min_choices must be at least 2", apperrors.ErrValidation)
	}
	if maxChoices < minChoices {
		return nil, fmt.Errorf("%w: max_choices must not be below min_choices", apperrors.ErrValidation)
	}
	if defaultChoices < minChoices || defaultChoices > maxChoices {
		return nil, fmt.Errorf("%w: default_choices must fall within [min_choices, max_choices]", apperrors.ErrValidation)
	}

	cfg, err := s.configRepo.Get()
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		cfg = entity.DefaultSystemConfig()
	}
	cfg.MinChoices = minChoices
	cfg.MaxChoices = maxChoices
	cfg.DefaultChoices = defaultChoices

	if err := s.configRepo.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateQuizItems checks the quiz as a whole against the editing
// constraints. An empty slice is valid: stories without a quiz exist.
func (s *StoryService) validateQuizItems(items []QuizItemInput) error {
	cfg := s.quizConstraints()

	for i, item := range items {
		n := i + 1
		if strings.TrimSpace(item.Question) == "" {
			return fmt.Errorf("%w: question %d is empty", apperrors.ErrValidation, n)
		}
		if strings.TrimSpace(item.CorrectAnswer) == "" {
			return fmt.Errorf("%w: question %d has no correct answer", apperrors.ErrValidation, n)
		}
		if !cfg.AllowsChoiceCount(len(item.Choices)) {
			return fmt.Errorf("%w: question %d must have between %d and %d choices, got %d",
				apperrors.ErrValidation, n, cfg.MinChoices, cfg.MaxChoices, len(item.Choices))
		}

		seen := make(map[string]bool, len(item.Choices))
		correctListed := false
		for _, choice := range item.Choices {
			if strings.TrimSpace(choice) == "" {
				return fmt.Errorf("%w: question %d has an empty choice", apperrors.ErrValidation, n)
			}
			if seen[choice] {
				return fmt.Errorf("%w: question %d repeats the choice %q", apperrors.ErrValidation, n, choice)
			}
			seen[choice] = true
			if choice == item.CorrectAnswer {
				correctListed = true
			}
		}
		// Scoring compares answer text against the correct answer, so a
		// correct answer absent from the choices could never be picked.
		if !correctListed {
			return fmt.Errorf("%w: question %d's correct answer is not among its choices", apperrors.ErrValidation, n)
		}
	}
	return nil
}

// buildQuizItems converts validated inputs to entities with sequential
// quiz numbers and choice positions.
func buildQuizItems(items []QuizItemInput) []entity.QuizItem {
	out := make([]entity.QuizItem, 0, len(items))
	for i, item := range items {
		choices := make([]entity.Choice, 0, len(item.Choices))
		for pos, text := range item.Choices {
			choices = append(choices, entity.Choice{Position: pos, Text: text})
		}
		out = append(out, entity.QuizItem{
			QuizNumber:    i + 1,
			Question:      item.Question,
			CorrectAnswer: item.CorrectAnswer,
			Choices:       choices,
		})
	}
	return out
}

// Create validates and persists a new story with its quiz.
func (s *StoryService) Create(input StoryInput) (*entity.Story, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", apperrors.ErrValidation, input.CategoryID)
		}
		return nil, err
	}
	if err := s.validateQuizItems(input.QuizItems); err != nil {
		return nil, err
	}

	story := &entity.Story{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		MediaURL:    input.MediaURL,
		Subtitles:   entity.StringArray(input.Subtitles),
		CategoryID:  input.CategoryID,
		QuizItems:   buildQuizItems(input.QuizItems),
	}
	if err := s.storyRepo.Create(story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

// GetByID returns the story without quiz preloads.
func (s *StoryService) GetByID(id uint) (*entity.Story, error) {
	return s.storyRepo.GetByID(id)
}

// GetWithQuiz returns the story with quiz items and choices loaded.
func (s *StoryService) GetWithQuiz(id uint) (*entity.Story, error) {
	return s.storyRepo.GetWithQuiz(id)
}

// List returns a filtered page of stories with the total count.
func (s *StoryService) List(filters repository.StoryFilters, page, pageSize int) ([]entity.Story, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.storyRepo.List(filters, pageSize, (page-1)*pageSize)
}

// Update validates and persists story field changes and, when quiz items
// are provided, replaces the whole quiz. Replacing the quiz orphans
// existing answers from their items, which surfaces as score drift on
// old submissions rather than silently rescoring them.
func (s *StoryService) Update(id uint, input StoryInput) (*entity.Story, error) {
	story, err := s.storyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if input.CategoryID != story.CategoryID {
		if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %d does not exist", apperrors.ErrValidation, input.CategoryID)
			}
			return nil, err
		}
	}

	// All validation happens before the first write: a rejected update
	// must leave the story exactly as it was.
	if input.QuizItems != nil {
		if err := s.validateQuizItems(input.QuizItems); err != nil {
			return nil, err
		}
	}

	story.Title = input.Title
	story.Author = input.Author
	story.Description = input.Description
	story.MediaURL = input.MediaURL
	story.Subtitles = entity.StringArray(input.Subtitles)
	story.CategoryID = input.CategoryID

	if err := s.storyRepo.Update(story); err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}

	if input.QuizItems != nil {
		if err := s.storyRepo.ReplaceQuiz(id, buildQuizItems(input.QuizItems)); err != nil {
			return nil, fmt.Errorf("failed to replace quiz: %w", err)
		}
	}

	return s.storyRepo.GetWithQuiz(id)
}

// Delete soft-deletes the story and drops the cached resolutions of
// its codes, so the deleted-story check in the code lookup takes
// effect immediately instead of after the cache TTL.
func (s *StoryService) Delete(id uint) error {
	if _, err := s.storyRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.storyRepo.Delete(id); err != nil {
		return err
	}
	if s.codes != nil {
		s.codes.InvalidateForStory(id)
	}
	return nil
}
