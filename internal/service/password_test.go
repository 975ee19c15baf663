package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
}

func TestHashPassword_EncodedFormat(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash was %q", hash)
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of one password must not collide")
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("right-password")
	require.NoError(t, err)

	err = CheckPassword(hash, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$only-four-parts",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=banana,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	}
	for _, encoded := range cases {
		err := CheckPassword(encoded, "whatever")
		assert.ErrorIs(t, err, ErrInvalidPasswordHash, "hash %q", encoded)
	}
}
