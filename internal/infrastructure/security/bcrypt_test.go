package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcrypt_HashVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4) // min cost keeps the test fast

	for _, pw := range []string{"pw123", "correct horse battery staple", "密码"} {
		digest, err := h.Hash(pw)
		require.NoError(t, err)
		require.NotEqual(t, pw, digest)
		require.NoError(t, h.Compare(digest, pw))
	}
}

func TestBcrypt_WrongPassword_Fails(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	digest, err := h.Hash("pw123")
	require.NoError(t, err)
	require.Error(t, h.Compare(digest, "pw124"))
}

func TestBcrypt_AlteredDigest_Fails(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	digest, err := h.Hash("pw123")
	require.NoError(t, err)

	altered := []byte(digest)
	altered[len(altered)-1] ^= 0x01
	require.Error(t, h.Compare(string(altered), "pw123"))
}

func TestBcrypt_DistinctSalts(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	a, err := h.Hash("pw123")
	require.NoError(t, err)
	b, err := h.Hash("pw123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
