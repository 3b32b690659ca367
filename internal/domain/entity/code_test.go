package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCD", NormalizeCode("abcd"))
	assert.Equal(t, "ABCD", NormalizeCode("  AbCd "))
	assert.Equal(t, "X7K2QP", NormalizeCode("x7k2qp"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestIsValidCodeInput(t *testing.T) {
	// Shorter than the minimum is rejected before any lookup.
	assert.False(t, IsValidCodeInput("ABC"))
	assert.False(t, IsValidCodeInput(""))

	assert.True(t, IsValidCodeInput("ABCD"))
	assert.True(t, IsValidCodeInput("X7K2QP"))

	// Non-alphanumeric characters never match a stored code.
	assert.False(t, IsValidCodeInput("AB-CD"))
	assert.False(t, IsValidCodeInput("AB CD"))
	assert.False(t, IsValidCodeInput("abcd")) // must already be normalized
}

func TestCode_IsActive(t *testing.T) {
	code := &Code{Status: CodeStatusActive}
	assert.True(t, code.IsActive())

	code.Status = CodeStatusInactive
	assert.False(t, code.IsActive())
}
