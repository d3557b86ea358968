package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbook-server/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Role:      models.RoleDoctor,
	}

	token, err := GenerateAccessToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	_, err = ValidateToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: models.RolePatient}

	token, err := GenerateAccessToken(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}
