package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

func fastArgon2() Argon2Params {
	return Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1}
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, h.Verify("s3cret!", hash))
	assert.False(t, h.Verify("wrong", hash))

	again, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(99).cost)
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := NewArgon2Hasher(fastArgon2())
	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.True(t, h.Verify("s3cret!", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestHash_InvalidInput(t *testing.T) {
	for _, h := range []interface {
		Hash(string) (string, error)
	}{NewBcryptHasher(4), NewArgon2Hasher(fastArgon2())} {
		_, err := h.Hash("")
		require.ErrorIs(t, err, domerrors.ErrInvalidInput)
		_, err = h.Hash("bad\xff")
		require.ErrorIs(t, err, domerrors.ErrInvalidInput)
	}
	_, err := NewBcryptHasher(4).Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

func TestVerify_MalformedHashFailsClosed(t *testing.T) {
	h, err := NewHasher(AlgorithmBcrypt, 4, fastArgon2())
	require.NoError(t, err)
	for _, bad := range []string{
		"",
		"plaintext",
		"$2a$10$short",
		"$argon2id$v=19$m=1024,t=1,p=1$onlysalt",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		assert.False(t, h.Verify("s3cret!", bad), "hash %q", bad)
	}
}

func TestHasher_VerifiesBothFormats(t *testing.T) {
	bcryptFirst, err := NewHasher(AlgorithmBcrypt, 4, fastArgon2())
	require.NoError(t, err)
	argonFirst, err := NewHasher(AlgorithmArgon2, 4, fastArgon2())
	require.NoError(t, err)

	b, err := bcryptFirst.Hash("pw")
	require.NoError(t, err)
	a, err := argonFirst.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a, argon2Prefix))

	assert.True(t, argonFirst.Verify("pw", b))
	assert.True(t, bcryptFirst.Verify("pw", a))
}

func TestNewHasher_UnknownAlgorithm(t *testing.T) {
	_, err := NewHasher("md5", 10, Argon2Params{})
	require.Error(t, err)
}
