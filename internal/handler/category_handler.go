package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
)

// CategoryHandler serves the staff category routes.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest carries category fields for create/update.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateCategory creates a category.
// POST /api/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categories.Create(req.Name, req.Description)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns all categories.
// GET /api/admin/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List()
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateCategory renames a category.
// PUT /api/admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categories.Update(categoryID, req.Name, req.Description)
	if err != nil {
		h.handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes an empty category.
// DELETE /api/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.categories.Delete(categoryID); err != nil {
		h.handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *CategoryHandler) handleCategoryError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrCategoryInUse) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "category_in_use"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in CategoryHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
