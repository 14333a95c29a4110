package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptCredentials(t *testing.T) {
	credentials := RememberedCredentials{
		Email:     "exec@example.com",
		Role:      "executive",
		UserID:    "507f1f77bcf86cd799439011",
		ExpiresAt: time.Now().Add(24 * time.Hour).Truncate(time.Second),
	}

	encrypted, err := EncryptCredentials(credentials)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, credentials.Email)

	decrypted, err := DecryptCredentials(encrypted)
	require.NoError(t, err)
	assert.Equal(t, credentials.Email, decrypted.Email)
	assert.Equal(t, credentials.Role, decrypted.Role)
	assert.Equal(t, credentials.UserID, decrypted.UserID)
}

func TestDecryptCredentialsRejectsGarbage(t *testing.T) {
	_, err := DecryptCredentials("not-valid-ciphertext")
	assert.Error(t, err)
}

func TestGenerateRememberMeTokenUnique(t *testing.T) {
	a, err := GenerateRememberMeToken()
	require.NoError(t, err)
	b, err := GenerateRememberMeToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
