package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps hashing fast in tests.
var testParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHash_PHCFormat(t *testing.T) {
	h := NewPasswordHasher(testParams)

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "v=19", parts[2])
	assert.Equal(t, "m=1024,t=1,p=1", parts[3])
	assert.NotContains(t, hash, "s3cret!")
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := NewPasswordHasher(testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(testParams)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "correct horsE"))
	assert.False(t, h.Verify(hash, ""))
}

func TestVerify_UsesEmbeddedParams(t *testing.T) {
	hash, err := NewPasswordHasher(testParams).Hash("pw123456")
	require.NoError(t, err)

	other := NewPasswordHasher(DefaultArgon2Params)
	assert.True(t, other.Verify(hash, "pw123456"))
}

func TestVerify_MalformedHashes(t *testing.T) {
	h := NewPasswordHasher(testParams)
	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	}
	for _, hash := range tests {
		assert.False(t, h.Verify(hash, "anything"), "hash %q", hash)
	}
}
