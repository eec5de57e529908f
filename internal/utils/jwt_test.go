package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractToken(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.GenerateToken(userID, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := service.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), extracted)
}

func TestExtractUserID_WrongSecret(t *testing.T) {
	service := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	token, err := service.GenerateToken(uuid.New(), true)
	require.NoError(t, err)

	// Токен, подписанный другим секретом, не принимается
	_, err = other.ExtractUserID(token)
	assert.Error(t, err)
}

func TestExtractUserID_Garbage(t *testing.T) {
	service := NewJWTService("test-secret")

	_, err := service.ExtractUserID("not-a-token")
	assert.Error(t, err)
}
