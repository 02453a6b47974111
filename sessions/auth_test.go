package sessions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reforged/reforged/sessions"
)

func TestSetAuthenticatedRoundTrip(t *testing.T) {
	session := sessions.NewValues()

	assert.False(t, sessions.IsAuthenticated(session))

	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	assert.True(t, sessions.IsAuthenticated(session))

	userID, ok := sessions.UserID(session)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	accessToken, ok := sessions.AccessToken(session)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", accessToken)
}

func TestClearAuthenticatedIsIdempotent(t *testing.T) {
	session := sessions.NewValues()
	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	sessions.ClearAuthenticated(session)
	assert.False(t, sessions.IsAuthenticated(session))

	sessions.ClearAuthenticated(session)
	assert.False(t, sessions.IsAuthenticated(session))

	_, ok := sessions.UserID(session)
	assert.False(t, ok)
	_, ok = sessions.AccessToken(session)
	assert.False(t, ok)
}

func TestLegacyKeysFallback(t *testing.T) {
	session := sessions.NewValues()
	session.Set("authenticated", "true")
	session.Set("user_id", "legacy-user")
	session.Set("access_token", "legacy-token")

	assert.True(t, sessions.IsAuthenticated(session))

	userID, ok := sessions.UserID(session)
	require.True(t, ok)
	assert.Equal(t, "legacy-user", userID)

	accessToken, ok := sessions.AccessToken(session)
	require.True(t, ok)
	assert.Equal(t, "legacy-token", accessToken)
}

func TestLegacyKeysUpgradeOnWrite(t *testing.T) {
	session := sessions.NewValues()
	session.Set("authenticated", "true")
	session.Set("user_id", "legacy-user")
	session.Set("access_token", "legacy-token")

	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	_, ok := session.Get("authenticated")
	assert.False(t, ok)
	_, ok = session.Get("user_id")
	assert.False(t, ok)
	_, ok = session.Get("access_token")
	assert.False(t, ok)

	userID, ok := sessions.UserID(session)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestUnreadableLegacyDataIsUnauthenticated(t *testing.T) {
	session := sessions.NewValues()
	session.Set("authenticated", "definitely")
	session.Set("user_id", "legacy-user")

	assert.False(t, sessions.IsAuthenticated(session))
	_, ok := sessions.UserID(session)
	assert.False(t, ok)
}

func TestCorruptAuthRecordIsUnauthenticated(t *testing.T) {
	session := sessions.NewValues()
	session.Set("auth", "{not json")

	assert.False(t, sessions.IsAuthenticated(session))
	_, ok := sessions.AccessToken(session)
	assert.False(t, ok)
}

func TestFlashIsOneShot(t *testing.T) {
	session := sessions.NewValues()

	_, _, ok := sessions.TakeFlash(session)
	assert.False(t, ok)

	sessions.SetFlash(session, sessions.FlashSuccess, "account created")

	kind, message, ok := sessions.TakeFlash(session)
	require.True(t, ok)
	assert.Equal(t, sessions.FlashSuccess, kind)
	assert.Equal(t, "account created", message)

	_, _, ok = sessions.TakeFlash(session)
	assert.False(t, ok)
}
