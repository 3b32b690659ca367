package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	"github.com/yourusername/storyquiz-api/internal/handler/dto"
	"github.com/yourusername/storyquiz-api/internal/middleware"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
	"github.com/yourusername/storyquiz-api/pkg/auth"
)

// StudentHandler serves the public student-facing routes: entry,
// story access, view tracking, quiz submission and results.
type StudentHandler struct {
	tokens   *auth.StudentTokenService
	codes    *service.CodeService
	students *service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(
	tokens *auth.StudentTokenService,
	codes *service.CodeService,
	students *service.StudentService,
) *StudentHandler {
	return &StudentHandler{tokens: tokens, codes: codes, students: students}
}

// GiveConsent records privacy consent.
// POST /api/student/consent
func (h *StudentHandler) GiveConsent(c *gin.Context) {
	h.tokens.SetConsentCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"consent": true})
}

// EnterRequest is the student entry form: code plus identity fields.
type EnterRequest struct {
	Code     string `json:"code" binding:"required"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Section  string `json:"section" binding:"required,min=1,max=50"`
}

// Enter validates the access code, signs the identity cookie and
// returns the story. This is the single door to the student surface.
// POST /api/student/enter
func (h *StudentHandler) Enter(c *gin.Context) {
	var req EnterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, resolved, err := h.codes.GetStoryForCode(req.Code)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	identity := auth.StudentIdentity{
		FullName:       strings.TrimSpace(req.FullName),
		Section:        strings.TrimSpace(req.Section),
		AuthorizedCode: resolved.Code,
	}

	// Returning students keep their device ID so views recorded on this
	// browser stay attributed to it; new ones get a fresh UUID.
	if existing, err := h.tokens.IdentityFromRequest(c.Request); err == nil && existing.DeviceID != "" {
		identity.DeviceID = existing.DeviceID
	} else {
		identity.DeviceID = uuid.NewString()
	}

	if err := h.tokens.SetIdentityCookie(c.Writer, identity); err != nil {
		log.Printf("[StudentHandler] failed to set identity cookie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start student session"})
		return
	}

	c.JSON(http.StatusOK, dto.StoryAccessResponse{
		Code:  resolved.Code,
		Story: dto.NewStoryResponse(story, true),
	})
}

// GetStory returns the story behind the code and records the view.
// GET /api/student/story/:code
func (h *StudentHandler) GetStory(c *gin.Context) {
	identity := middleware.MustStudentIdentity(c)
	code := c.Param("code")

	story, resolved, err := h.codes.GetStoryForCode(code)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	// View tracking is a page side effect: failure never blocks the
	// story itself.
	h.students.TrackStoryView(code, identity)

	c.JSON(http.StatusOK, dto.StoryAccessResponse{
		Code:  resolved.Code,
		Story: dto.NewStoryResponse(story, true),
	})
}

// SubmitQuizRequest carries the student's answers keyed by quiz item ID.
type SubmitQuizRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// SubmitQuiz accepts one complete quiz submission. Runs behind the
// view gate.
// POST /api/student/story/:code/submit
func (h *StudentHandler) SubmitQuiz(c *gin.Context) {
	identity := middleware.MustStudentIdentity(c)
	code := c.Param("code")

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolved, err := h.codes.Resolve(code)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	submission, err := h.students.SubmitQuizAnswers(service.SubmitQuizInput{
		CodeID:   resolved.CodeID,
		StoryID:  resolved.StoryID,
		Identity: identity,
		Answers:  req.Answers,
	})
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmissionResponse{
		SubmissionID: submission.ID,
		Score:        submission.Score,
		TotalItems:   len(req.Answers),
		SubmittedAt:  submission.SubmittedAt,
	})
}

// GetResults returns the student's own submission results.
// GET /api/student/story/:code/results
func (h *StudentHandler) GetResults(c *gin.Context) {
	identity := middleware.MustStudentIdentity(c)

	results, err := h.students.GetSubmissionResults(c.Param("code"), identity)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrDuplicateSubmission) {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already submitted answers for this story", "error_type": "already_submitted"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Code not found or no longer active", "error_type": "code_not_found"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in StudentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
