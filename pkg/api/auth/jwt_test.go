package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/directory"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func TestNewJWTService_SecretTooShort(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Secret: "short"})
	assert.ErrorIs(t, err, ErrInvalidSecretLength)
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	user := directory.User{ID: "1", DisplayName: "מנהל ראשי", Role: directory.RoleAdmin}
	token, err := svc.Generate(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "מנהל ראשי", claims.DisplayName)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidate_BadToken(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	signer, err := NewJWTService(JWTConfig{Secret: testSecret})
	require.NoError(t, err)
	verifier, err := NewJWTService(JWTConfig{Secret: "a-completely-different-32-char-secret!!"})
	require.NoError(t, err)

	token, err := signer.Generate(directory.User{ID: "1"})
	require.NoError(t, err)

	_, err = verifier.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret, TokenDuration: -time.Minute})
	require.NoError(t, err)

	token, err := svc.Generate(directory.User{ID: "1"})
	require.NoError(t, err)

	_, err = svc.Validate(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
