package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_InviteTokenRoundTrip(t *testing.T) {
	user := &User{Email: "teacher@example.com", Status: UserStatusInvited}

	err := user.SetInviteToken("some-random-token", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, user.InviteTokenHash)

	assert.True(t, user.CheckInviteToken("some-random-token"))
	assert.False(t, user.CheckInviteToken("wrong-token"))
	assert.False(t, user.CheckInviteToken(""))
}

func TestUser_CheckInviteToken_Expired(t *testing.T) {
	user := &User{Email: "teacher@example.com", Status: UserStatusInvited}

	err := user.SetInviteToken("some-random-token", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	assert.False(t, user.CheckInviteToken("some-random-token"))
}

func TestUser_CheckInviteToken_NoPendingInvite(t *testing.T) {
	user := &User{Email: "teacher@example.com", Status: UserStatusActive}
	assert.False(t, user.CheckInviteToken("anything"))
}

func TestIsValidUserStatus(t *testing.T) {
	assert.True(t, IsValidUserStatus(UserStatusInvited))
	assert.True(t, IsValidUserStatus(UserStatusActive))
	assert.True(t, IsValidUserStatus(UserStatusInactive))
	assert.True(t, IsValidUserStatus(UserStatusSuspended))
	assert.False(t, IsValidUserStatus("deleted"))
	assert.False(t, IsValidUserStatus(""))
}
