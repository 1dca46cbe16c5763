package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	st, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, st.Token)
	assert.Len(t, st.Hash, 64)

	hash, err := ParseSessionToken("secret", st.Token)
	require.NoError(t, err)
	assert.Equal(t, st.Hash, hash)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	st, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", st.Token)
	assert.Error(t, err)
}

func TestParseSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestSessionTokensAreUnique(t *testing.T) {
	a, err := NewSessionToken("secret", 1, time.Hour)
	require.NoError(t, err)
	b, err := NewSessionToken("secret", 1, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
