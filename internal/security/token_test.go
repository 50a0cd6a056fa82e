package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudangsewa-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, err := tm.GenerateAccessToken("budi", domain.RoleMember)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "budi", claims.Username)
	assert.Equal(t, domain.RoleMember, claims.Role)
	assert.Equal(t, domain.Actor{Username: "budi", Role: domain.RoleMember}, claims.Actor())
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", 60)

	token, err := tm.GenerateAccessToken("budi", domain.RoleMember)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, -1)

	token, err := tm.GenerateAccessToken("budi", domain.RoleMember)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
