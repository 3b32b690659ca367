package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

func TestInvite_CreatesRecordAndSendsEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	email := new(MockEmailService)
	svc := NewUserService(userRepo, email, "https://app.example.com/accept-invite/")

	userRepo.On("GetByEmail", "teacher@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "teacher@example.com" &&
			u.Status == entity.UserStatusInvited &&
			u.InviteTokenHash != "" &&
			u.InviteExpiresAt != nil
	})).Return(nil)
	email.On("SendInvite", mock.Anything, "teacher@example.com", "Ms. Cruz",
		mock.MatchedBy(func(url string) bool {
			return strings.HasPrefix(url, "https://app.example.com/accept-invite?email=teacher%40example.com&token=")
		}), mock.Anything).Return(nil)

	user, err := svc.Invite(context.Background(), " Teacher@Example.com ", "Ms. Cruz")
	require.NoError(t, err)
	assert.Equal(t, "teacher@example.com", user.Email)
	email.AssertExpectations(t)
}

func TestInvite_RejectsActiveUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com/accept-invite")

	userRepo.On("GetByEmail", "teacher@example.com").
		Return(&entity.User{Email: "teacher@example.com", Status: entity.UserStatusActive}, nil)

	_, err := svc.Invite(context.Background(), "teacher@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestInvite_ReinviteRotatesToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	email := new(MockEmailService)
	svc := NewUserService(userRepo, email, "https://app.example.com/accept-invite")

	existing := &entity.User{ID: 4, Email: "teacher@example.com", Status: entity.UserStatusInvited}
	require.NoError(t, existing.SetInviteToken("old-token", time.Now().Add(time.Hour)))
	oldHash := existing.InviteTokenHash

	userRepo.On("GetByEmail", "teacher@example.com").Return(existing, nil)
	userRepo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
		return u.InviteTokenHash != oldHash
	})).Return(nil)
	email.On("SendInvite", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Invite(context.Background(), "teacher@example.com", "")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestInvite_RejectsMalformedEmail(t *testing.T) {
	svc := NewUserService(new(MockUserRepo), new(MockEmailService), "https://app.example.com")

	_, err := svc.Invite(context.Background(), "not-an-email", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAcceptInvite_VerifiesToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	user := &entity.User{ID: 4, Email: "teacher@example.com", Status: entity.UserStatusInvited}
	require.NoError(t, user.SetInviteToken("the-token", time.Now().Add(time.Hour)))

	userRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)
	userRepo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
		return u.Status == entity.UserStatusActive && u.InviteTokenHash == "" && u.InviteExpiresAt == nil
	})).Return(nil)

	activated, err := svc.AcceptInvite("teacher@example.com", "the-token")
	require.NoError(t, err)
	assert.True(t, activated.IsActive())
}

func TestAcceptInvite_RejectsWrongToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	user := &entity.User{Email: "teacher@example.com", Status: entity.UserStatusInvited}
	require.NoError(t, user.SetInviteToken("the-token", time.Now().Add(time.Hour)))

	userRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)

	_, err := svc.AcceptInvite("teacher@example.com", "wrong-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAcceptInvite_RejectsExpiredToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	user := &entity.User{Email: "teacher@example.com", Status: entity.UserStatusInvited}
	require.NoError(t, user.SetInviteToken("the-token", time.Now().Add(-time.Minute)))

	userRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)

	_, err := svc.AcceptInvite("teacher@example.com", "the-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAcceptInvite_LegacyRecordWithoutHash(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	user := &entity.User{Email: "teacher@example.com", Status: entity.UserStatusInvited}
	userRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)
	userRepo.On("Update", mock.Anything).Return(nil)

	activated, err := svc.AcceptInvite("teacher@example.com", "")
	require.NoError(t, err)
	assert.True(t, activated.IsActive())
}

func TestAcceptInvite_NotPending(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	userRepo.On("GetByEmail", "teacher@example.com").
		Return(&entity.User{Email: "teacher@example.com", Status: entity.UserStatusSuspended}, nil)

	_, err := svc.AcceptInvite("teacher@example.com", "any")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSetStatus_Validation(t *testing.T) {
	svc := NewUserService(new(MockUserRepo), new(MockEmailService), "https://app.example.com")

	_, err := svc.SetStatus("teacher@example.com", "banned")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSetStatus_NoopWhenUnchanged(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	userRepo.On("GetByEmail", "teacher@example.com").
		Return(&entity.User{Email: "teacher@example.com", Status: entity.UserStatusActive}, nil)

	user, err := svc.SetStatus("teacher@example.com", entity.UserStatusActive)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, user.Status)
	userRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestIsActiveStaff(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, new(MockEmailService), "https://app.example.com")

	userRepo.On("GetByEmail", "active@example.com").
		Return(&entity.User{Status: entity.UserStatusActive}, nil)
	userRepo.On("GetByEmail", "suspended@example.com").
		Return(&entity.User{Status: entity.UserStatusSuspended}, nil)
	userRepo.On("GetByEmail", "unknown@example.com").Return(nil, apperrors.ErrNotFound)

	ok, err := svc.IsActiveStaff("active@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsActiveStaff("suspended@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsActiveStaff("unknown@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
