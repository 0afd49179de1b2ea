package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "authd-test"

func testSigner() *HS256 {
	return NewHS256([]byte("unit-test-secret"), testIssuer)
}

func TestHS256_SignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := testSigner()
	now := time.Now().UTC()

	claims := NewSessionClaims("user-123", "alice@example.com", testIssuer, DefaultSessionTTL, now)

	token, err := h.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, testIssuer, got.Issuer)
	require.WithinDuration(t, now.Add(DefaultSessionTTL), got.ExpiresAt.Time, time.Second)
}

func TestHS256_ExpiryWindow(t *testing.T) {
	t.Parallel()

	h := testSigner()
	now := time.Now().UTC()

	t.Run("valid just before expiry", func(t *testing.T) {
		// Minted 59 minutes ago with a 1 hour TTL.
		claims := NewSessionClaims("u", "u@example.com", testIssuer, DefaultSessionTTL, now.Add(-59*time.Minute))
		token, err := h.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.NoError(t, err)
	})

	t.Run("expired just after expiry", func(t *testing.T) {
		// Minted 61 minutes ago with a 1 hour TTL.
		claims := NewSessionClaims("u", "u@example.com", testIssuer, DefaultSessionTTL, now.Add(-61*time.Minute))
		token, err := h.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})
}

func TestHS256_WrongSecret(t *testing.T) {
	t.Parallel()

	claims := NewSessionClaims("u", "u@example.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := testSigner().Sign(claims)
	require.NoError(t, err)

	other := NewHS256([]byte("a-different-secret"), testIssuer)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256_IssuerMismatch(t *testing.T) {
	t.Parallel()

	claims := NewSessionClaims("u", "u@example.com", "someone-else", DefaultSessionTTL, time.Now().UTC())
	token, err := testSigner().Sign(claims)
	require.NoError(t, err)

	_, err = testSigner().Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	// alg=none tokens must never verify.
	claims := NewSessionClaims("u", "u@example.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testSigner().Verify(raw)
	require.Error(t, err)
}

func TestHS256_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := testSigner().Verify(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}

func TestClaims_ValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("live token passes", func(t *testing.T) {
		c := NewSessionClaims("u", "", testIssuer, time.Hour, now)
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token fails", func(t *testing.T) {
		c := NewSessionClaims("u", "", testIssuer, time.Hour, now.Add(-2*time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), ErrExpired)
	})

	t.Run("future nbf fails", func(t *testing.T) {
		c := NewSessionClaims("u", "", testIssuer, time.Hour, now.Add(time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), ErrNotYetValid)
	})
}
