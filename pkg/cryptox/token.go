package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a password-reset token before encoding.
// 20 random bytes hex-encode to a 40-character token.
const ResetTokenBytes = 20

// GenerateResetToken creates a password-reset token pair: the hex-encoded
// plaintext that is delivered to the user exactly once, and the SHA-256
// digest of that plaintext which is what gets persisted. The plaintext is
// never stored; possession of it is the whole credential.
func GenerateResetToken() (plaintext, digest string, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	plaintext = hex.EncodeToString(buf)
	return plaintext, ResetTokenDigest(plaintext), nil
}

// ResetTokenDigest returns the deterministic hex SHA-256 digest of a reset
// token plaintext. Used symmetrically at generation and verification time so
// the stored value supports equality lookup without retaining the secret.
func ResetTokenDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
