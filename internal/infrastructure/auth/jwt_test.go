package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret-that-is-long-enough!", "fieldline-backend", time.Hour)

	token, err := m.Generate("sm-1", "mgr-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sm-1", claims.UID)
	assert.Equal(t, "mgr-1", claims.ManagerID)
	assert.Equal(t, "fieldline-backend", claims.Issuer)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret-that-is-long-enough!", "fieldline-backend", time.Hour)
	other := NewJWTManager("a-completely-different-secret!!!", "fieldline-backend", time.Hour)

	token, err := m.Generate("sm-1", "mgr-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret-that-is-long-enough!", "fieldline-backend", -time.Minute)

	token, err := m.Generate("sm-1", "mgr-1")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongIssuer(t *testing.T) {
	m := NewJWTManager("test-secret-that-is-long-enough!", "someone-else", time.Hour)
	verifier := NewJWTManager("test-secret-that-is-long-enough!", "fieldline-backend", time.Hour)

	token, err := m.Generate("sm-1", "mgr-1")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret-that-is-long-enough!", "fieldline-backend", time.Hour)

	_, err := m.Validate("not.a.token")
	assert.Error(t, err)
}
