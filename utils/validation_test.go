package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("  user.name+tag@sub.example.co  "))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
}

func TestValidateRole(t *testing.T) {
	assert.True(t, ValidateRole("admin"))
	assert.True(t, ValidateRole("manager"))
	assert.True(t, ValidateRole("executive"))
	assert.False(t, ValidateRole("superuser"))
	assert.False(t, ValidateRole(""))
}
