package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/handler/dto"
	"github.com/yourusername/storyquiz-api/internal/middleware"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
	"github.com/yourusername/storyquiz-api/internal/service"
)

// UserHandler serves the staff account routes: invitations, activation
// and status management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// InviteRequest carries a new staff invitation.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"omitempty,max=100"`
}

// Invite creates an invited staff record and emails the activation link.
// POST /api/admin/users/invite
func (h *UserHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Invite(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// AcceptInviteRequest carries the emailed activation parameters.
type AcceptInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token"`
}

// AcceptInvite activates a pending staff account. Public route: the
// recipient has no token yet.
// POST /api/user/accept-invite
func (h *UserHandler) AcceptInvite(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.AcceptInvite(req.Email, req.Token)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ListUsers returns all staff records.
// GET /api/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.NewListUserResponse(users)})
}

// UpdateStatusRequest carries a lifecycle change for one account.
type UpdateStatusRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves a staff account to a new lifecycle state.
// POST /api/user/update-status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Self-demotion would lock the last admin out mid-session.
	if actorEmail, ok := c.Get(middleware.StaffEmailKey); ok && actorEmail.(string) == req.Email {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot change your own status"})
		return
	}

	user, err := h.users.SetStatus(req.Email, req.Status)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Me returns the caller's own staff record.
// GET /api/admin/me
func (h *UserHandler) Me(c *gin.Context) {
	email := c.MustGet(middleware.StaffEmailKey).(string)

	user, err := h.users.GetByEmail(email)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in UserHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
