package oauthflow

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	first, err := NewState()
	require.NoError(t, err)
	second, err := NewState()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	_, err = base64.RawURLEncoding.DecodeString(first)
	assert.NoError(t, err)
}

func TestNewPKCEPair(t *testing.T) {
	verifier, challenge, err := NewPKCEPair()
	require.NoError(t, err)

	assert.NotEmpty(t, verifier)
	assert.NotEqual(t, verifier, challenge)

	sum := sha256.Sum256([]byte(verifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), challenge)
	assert.Equal(t, challenge, ChallengeFor(verifier))
}
