package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(key, 42, "curl/8")
	require.NoError(t, err)

	claims, err := ParseToken(key, token, PurposeAccess)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "curl/8", claims.UserAgent)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	access, err := GenerateToken(key, 42, "")
	require.NoError(t, err)
	reset, err := GenerateResetToken(key, 42, "hash")
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-key"), access, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(key, reset, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(key, "garbage", PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := ParseToken(key, reset, PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint("hash"), claims.Fingerprint)
	assert.NotEqual(t, Fingerprint("other"), claims.Fingerprint)
}
