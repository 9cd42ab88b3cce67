package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "hr-system")
	user := &model.User{
		ID:       uuid.New(),
		Email:    "sarah@example.com",
		FullName: "Sarah Chen",
		Role:     model.UserRoleHR,
	}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.FullName, claims.Name)
	assert.Equal(t, model.UserRoleHR, claims.Role)
	assert.Equal(t, "hr-system", claims.Issuer)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour, "hr-system")
	verifier := NewJWTService("secret-b", time.Hour, "hr-system")

	token, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Role: model.UserRoleEmployee})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, "hr-system")

	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Role: model.UserRoleEmployee})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, "hr-system")
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
