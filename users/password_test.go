package users_test

import (
	"strings"
	"testing"

	"github.com/reforged/reforged/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HasherRoundTrip(t *testing.T) {
	hasher := users.NewArgon2Hasher()

	hp, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hp.Hash, "$argon2id$"), "hash must be PHC encoded")
	require.NotEmpty(t, hp.Salt)

	require.NoError(t, hasher.Verify("correct horse battery staple", hp.Hash))
}

func TestArgon2HasherMismatch(t *testing.T) {
	hasher := users.NewArgon2Hasher()

	hp, err := hasher.Hash("password1")
	require.NoError(t, err)

	err = hasher.Verify("password2", hp.Hash)
	require.ErrorIs(t, err, users.ErrPasswordMismatch)
}

func TestArgon2HasherFreshSaltPerHash(t *testing.T) {
	hasher := users.NewArgon2Hasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash, second.Hash)
	assert.NotEqual(t, first.Salt, second.Salt)
}

func TestArgon2HasherMalformedStoredHash(t *testing.T) {
	hasher := users.NewArgon2Hasher()

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
		{"bad parameters", "$argon2id$v=19$m=abc,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Malformed hashes must be indistinguishable from a mismatch.
			err := hasher.Verify("any password", tc.stored)
			require.ErrorIs(t, err, users.ErrPasswordMismatch)
		})
	}
}
