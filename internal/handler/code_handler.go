package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
)

// CodeHandler serves the staff access-code routes.
type CodeHandler struct {
	codes *service.CodeService
}

// NewCodeHandler creates a new code handler.
func NewCodeHandler(codes *service.CodeService) *CodeHandler {
	return &CodeHandler{codes: codes}
}

// GenerateCodeRequest binds the story a new code is minted for.
type GenerateCodeRequest struct {
	StoryID uint `json:"story_id" binding:"required"`
}

// GenerateCode mints a fresh code for a story.
// POST /api/admin/codes
func (h *CodeHandler) GenerateCode(c *gin.Context) {
	var req GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.codes.Generate(req.StoryID)
	if err != nil {
		h.handleCodeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCodeResponse(code))
}

// ListCodesByStory returns the codes bound to a story.
// GET /api/admin/stories/:id/codes
func (h *CodeHandler) ListCodesByStory(c *gin.Context) {
	storyID := c.MustGet("storyID").(uint)

	codes, err := h.codes.ListByStory(storyID)
	if err != nil {
		h.handleCodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"codes": dto.NewListCodeResponse(codes)})
}

// SetCodeStatusRequest carries the target status.
type SetCodeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// SetCodeStatus activates or deactivates a code.
// PATCH /api/admin/codes/:id/status
func (h *CodeHandler) SetCodeStatus(c *gin.Context) {
	codeID := c.MustGet("codeID").(uint)

	var req SetCodeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.codes.SetStatus(codeID, req.Status); err != nil {
		h.handleCodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code status updated", "status": req.Status})
}

// DeleteCode soft-deletes a code.
// DELETE /api/admin/codes/:id
func (h *CodeHandler) DeleteCode(c *gin.Context) {
	codeID := c.MustGet("codeID").(uint)

	if err := h.codes.Delete(codeID); err != nil {
		h.handleCodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code deleted"})
}

func (h *CodeHandler) handleCodeError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in CodeHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
