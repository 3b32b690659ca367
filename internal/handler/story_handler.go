package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	"github.com/yourusername/storyquiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
)

// StoryHandler serves the staff story-management routes.
type StoryHandler struct {
	stories *service.StoryService
}

// NewStoryHandler creates a new story handler.
func NewStoryHandler(stories *service.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// CreateStory creates a story with its quiz.
// POST /api/admin/stories
func (h *StoryHandler) CreateStory(c *gin.Context) {
	var req service.StoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.stories.Create(req)
	if err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewStoryResponse(story, true))
}

// GetStory returns one story with its quiz.
// GET /api/admin/stories/:id
func (h *StoryHandler) GetStory(c *gin.Context) {
	storyID := c.MustGet("storyID").(uint)

	story, err := h.stories.GetWithQuiz(storyID)
	if err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStoryResponse(story, true))
}

// ListStories returns a filtered story page.
// GET /api/admin/stories?category_id=&search=&page=&per_page=
func (h *StoryHandler) ListStories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 32)

	filters := repository.StoryFilters{
		CategoryID: uint(categoryID),
		Search:     c.Query("search"),
	}

	stories, total, err := h.stories.List(filters, page, perPage)
	if err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedStoriesResponse{
		Stories: dto.NewListStoryResponse(stories),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// UpdateStory updates story fields and optionally replaces the quiz.
// PUT /api/admin/stories/:id
func (h *StoryHandler) UpdateStory(c *gin.Context) {
	storyID := c.MustGet("storyID").(uint)

	var req service.StoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.stories.Update(storyID, req)
	if err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStoryResponse(story, true))
}

// DeleteStory soft-deletes a story.
// DELETE /api/admin/stories/:id
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	storyID := c.MustGet("storyID").(uint)

	if err := h.stories.Delete(storyID); err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story deleted"})
}

// GetQuizConstraints returns the quiz-editing bounds for the authoring UI.
// GET /api/admin/quiz-constraints
func (h *StoryHandler) GetQuizConstraints(c *gin.Context) {
	c.JSON(http.StatusOK, h.stories.GetQuizConstraints())
}

// UpdateQuizConstraintsRequest carries new editing bounds.
type UpdateQuizConstraintsRequest struct {
	MinChoices     int `json:"min_choices" binding:"required,min=2"`
	MaxChoices     int `json:"max_choices" binding:"required"`
	DefaultChoices int `json:"default_choices" binding:"required"`
}

// UpdateQuizConstraints persists new quiz-editing bounds.
// PUT /api/admin/quiz-constraints
func (h *StoryHandler) UpdateQuizConstraints(c *gin.Context) {
	var req UpdateQuizConstraintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.stories.UpdateQuizConstraints(req.MinChoices, req.MaxChoices, req.DefaultChoices)
	if err != nil {
		h.handleStoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *StoryHandler) handleStoryError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in StoryHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
