package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	plaintext, digest, err := GenerateResetToken()
	require.NoError(t, err)

	// 20 bytes of entropy, hex-encoded.
	require.Len(t, plaintext, ResetTokenBytes*2)
	_, err = hex.DecodeString(plaintext)
	require.NoError(t, err, "plaintext should be valid hex")

	// SHA-256 digest, hex-encoded.
	require.Len(t, digest, 64)
	require.NotEqual(t, plaintext, digest)

	// The digest must be recomputable from the plaintext alone.
	require.Equal(t, digest, ResetTokenDigest(plaintext))
}

func TestGenerateResetToken_Unique(t *testing.T) {
	p1, d1, err := GenerateResetToken()
	require.NoError(t, err)

	p2, d2, err := GenerateResetToken()
	require.NoError(t, err)

	require.NotEqual(t, p1, p2)
	require.NotEqual(t, d1, d2)
}

func TestResetTokenDigest_Deterministic(t *testing.T) {
	require.Equal(t, ResetTokenDigest("abc"), ResetTokenDigest("abc"))
	require.NotEqual(t, ResetTokenDigest("abc"), ResetTokenDigest("abd"))
}
