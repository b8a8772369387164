package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenIsUniqueAndURLSafe(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 64 {
		tok, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.NotContains(t, tok, "/")
		require.NotContains(t, tok, "+")
		require.NotContains(t, tok, "=")

		_, dup := seen[tok]
		require.False(t, dup, "token collision")
		seen[tok] = struct{}{}
	}
}

func TestGenerateTokenRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()

	_, err := GenerateToken(0)
	require.Error(t, err)
	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-Passw0rd")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifyPassword("s3cret-Passw0rd", hash))
	require.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	require.Error(t, VerifyPassword("pw", "not-a-hash"))
	require.Error(t, VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestSignatureHashConcatenationOrder(t *testing.T) {
	t.Parallel()

	sig := "data:image/png;base64,iVBOR"
	ts := "2025-06-01T12:00:00Z"
	ip := "203.0.113.7"

	sum := sha256.Sum256([]byte(sig + ts + ip))
	require.Equal(t, hex.EncodeToString(sum[:]), SignatureHash(sig, ts, ip))

	// Reordering any component must change the digest.
	require.NotEqual(t, SignatureHash(sig, ts, ip), SignatureHash(sig, ip, ts))
}
