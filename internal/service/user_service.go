package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	"github.com/yourusername/storyquiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// inviteValidity is how long an emailed invite link stays usable.
const inviteValidity = 7 * 24 * time.Hour

// UserService manages the staff mirror records and the invitation flow.
// Authentication itself lives in the external identity provider; these
// records gate who the staff surface lets in.
type UserService struct {
	userRepo      repository.UserRepository
	email         EmailService
	inviteBaseURL string
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, email EmailService, inviteBaseURL string) *UserService {
	return &UserService{
		userRepo:      userRepo,
		email:         email,
		inviteBaseURL: strings.TrimRight(inviteBaseURL, "/"),
	}
}

// Invite creates (or refreshes) an invited staff record and emails the
// activation link. Re-inviting a still-pending user rotates the token;
// inviting an already active user fails with ErrConflict.
func (s *UserService) Invite(ctx context.Context, email, name string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	switch {
	case err == nil:
		if !user.IsInvited() {
			return nil, fmt.Errorf("%w: %s already has an account (%s)", apperrors.ErrConflict, email, user.Status)
		}
		// Pending invite: rotate the token and resend below.
	case errors.Is(err, apperrors.ErrNotFound):
		user = &entity.User{Email: email, Name: name, Status: entity.UserStatusInvited}
	default:
		return nil, err
	}

	// The raw token travels only in the emailed link; the row keeps a
	// bcrypt hash, same as a password would.
	token := uuid.NewString()
	if err := user.SetInviteToken(token, time.Now().Add(inviteValidity)); err != nil {
		return nil, fmt.Errorf("failed to hash invite token: %w", err)
	}
	if name != "" {
		user.Name = name
	}

	if user.ID == 0 {
		err = s.userRepo.Create(user)
	} else {
		err = s.userRepo.Update(user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save invited user: %w", err)
	}

	inviteURL := fmt.Sprintf("%s?email=%s&token=%s",
		s.inviteBaseURL, url.QueryEscape(email), url.QueryEscape(token))
	if err := s.email.SendInvite(ctx, email, user.Name, inviteURL, "invite-"+token); err != nil {
		// The record exists either way; the teacher can re-invite to
		// trigger a fresh email.
		log.Printf("[UserService] invite email to %s failed: %v", email, err)
		return nil, fmt.Errorf("failed to send invite email: %w", err)
	}

	return user, nil
}

// AcceptInvite activates a pending user. When the record carries a
// token hash the presented token must verify against it; records
// created before token hashing activate on email alone.
func (s *UserService) AcceptInvite(email, token string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if !user.IsInvited() {
		return nil, fmt.Errorf("%w: invitation for %s is no longer pending", apperrors.ErrConflict, email)
	}

	if user.InviteTokenHash != "" && !user.CheckInviteToken(token) {
		return nil, fmt.Errorf("%w: invite link is invalid or expired", apperrors.ErrUnauthorized)
	}

	user.Status = entity.UserStatusActive
	user.InviteTokenHash = ""
	user.InviteExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	return user, nil
}

// GetByEmail returns the staff record for an email.
func (s *UserService) GetByEmail(email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
}

// List returns all staff records.
func (s *UserService) List() ([]entity.User, error) {
	return s.userRepo.List()
}

// SetStatus moves a user to a new lifecycle state by email.
func (s *UserService) SetStatus(email, status string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !entity.IsValidUserStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	if err := s.userRepo.UpdateStatus(email, status); err != nil {
		return nil, err
	}
	user.Status = status
	return user, nil
}

// IsActiveStaff reports whether the email belongs to an active staff
// record. Used by the auth middleware after JWT verification.
func (s *UserService) IsActiveStaff(email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive(), nil
}
