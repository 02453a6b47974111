package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reforged/reforged/sessions"
)

var cookieSecret = []byte("cookie-signing-secret")

func saveAndReload(t *testing.T, store *sessions.CookieStore, session sessions.Values, mutate func(*http.Cookie)) sessions.Values {
	t.Helper()

	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, session))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	if mutate != nil {
		mutate(cookies[0])
	}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])
	return store.Load(request)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)

	session := sessions.NewValues()
	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	reloaded := saveAndReload(t, store, session, nil)
	assert.True(t, sessions.IsAuthenticated(reloaded))

	userID, ok := sessions.UserID(reloaded)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestCookieStoreRejectsTamperedCookie(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)

	session := sessions.NewValues()
	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	reloaded := saveAndReload(t, store, session, func(c *http.Cookie) {
		c.Value = c.Value[:len(c.Value)-2] + "xx"
	})
	assert.False(t, sessions.IsAuthenticated(reloaded))
	assert.Empty(t, reloaded)
}

func TestCookieStoreRejectsForeignSecret(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)
	otherStore, err := sessions.NewCookieStore([]byte("a-different-secret"))
	require.NoError(t, err)

	session := sessions.NewValues()
	session.Set("k", "v")

	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, session))
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])
	assert.Empty(t, otherStore.Load(request))
}

func TestCookieStoreMissingCookieIsEmpty(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, store.Load(request))
}

func TestCookieStoreEmptySessionClearsCookie(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, sessions.NewValues()))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCookieStoreSetsCookieAttributes(t *testing.T) {
	store, err := sessions.NewCookieStore(cookieSecret)
	require.NoError(t, err)

	session := sessions.NewValues()
	session.Set("k", "v")

	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, session))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestMemoryStoreRotatesIDOnLogin(t *testing.T) {
	store := sessions.NewMemoryStore()

	// The attacker hands the victim a cookie with a known session id.
	planted := httptest.NewRequest(http.MethodGet, "/", nil)
	plantedID := "f7b1f3f3-25b0-4a3b-9a65-5a2e6f1b9a01"
	planted.AddCookie(&http.Cookie{Name: "reforged_session", Value: plantedID})

	session := sessions.NewValues()
	sessions.SetAuthenticated(session, "user-1", "alice@example.com", "tok-abc")

	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, planted, session))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, plantedID, cookies[0].Value)

	// The planted id must not resolve to the authenticated session.
	replay := httptest.NewRequest(http.MethodGet, "/", nil)
	replay.AddCookie(&http.Cookie{Name: "reforged_session", Value: plantedID})
	assert.False(t, sessions.IsAuthenticated(store.Load(replay)))

	// The rotated id does.
	rotated := httptest.NewRequest(http.MethodGet, "/", nil)
	rotated.AddCookie(cookies[0])
	assert.True(t, sessions.IsAuthenticated(store.Load(rotated)))
}

func TestMemoryStoreIgnoresNonUUIDSessionIDs(t *testing.T) {
	store := sessions.NewMemoryStore()

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "reforged_session", Value: "not-a-uuid"})
	assert.Empty(t, store.Load(request))

	session := sessions.NewValues()
	session.Set("k", "v")
	recorder := httptest.NewRecorder()
	require.NoError(t, store.Save(recorder, request, session))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "not-a-uuid", cookies[0].Value)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := sessions.NewMemoryStore()

	session := sessions.NewValues()
	session.Set("k", "v")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.Save(recorder, request, session))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	require.NotEmpty(t, cookies[0].Value)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	reloaded := store.Load(next)

	value, ok := reloaded.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}
