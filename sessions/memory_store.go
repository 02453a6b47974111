package sessions

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions server-side in a mutex-guarded map, keyed by
// an opaque session id cookie. An alternative to the signed cookie store.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]Values
	cookieName string
	maxAge     time.Duration
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]Values),
		cookieName: DefaultCookieName,
		maxAge:     DefaultCookieMaxAge,
	}
}

// Load returns the session behind the request's session id cookie, or a
// fresh empty session when there is none. Ids that are not UUIDs issued
// by Save are ignored.
func (ms *MemoryStore) Load(r *http.Request) Values {
	sessionID := ms.requestSessionID(r)
	if sessionID == "" {
		return NewValues()
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	stored, ok := ms.sessions[sessionID]
	if !ok {
		return NewValues()
	}

	session := NewValues()
	for key, value := range stored {
		session.Set(key, value)
	}
	return session
}

// Save stores the session and sets the session id cookie. An empty session
// is dropped from the store and the cookie cleared. The id rotates when
// the session becomes authenticated, so a planted id never survives login.
func (ms *MemoryStore) Save(w http.ResponseWriter, r *http.Request, session Values) error {
	sessionID := ms.requestSessionID(r)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(session) == 0 {
		if sessionID != "" {
			delete(ms.sessions, sessionID)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     ms.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	if sessionID != "" && IsAuthenticated(session) && !IsAuthenticated(ms.sessions[sessionID]) {
		delete(ms.sessions, sessionID)
		sessionID = ""
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	stored := NewValues()
	for key, value := range session {
		stored.Set(key, value)
	}
	ms.sessions[sessionID] = stored

	http.SetCookie(w, &http.Cookie{
		Name:     ms.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ms.maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// requestSessionID returns the request's session id when it looks like an
// id this store issued.
func (ms *MemoryStore) requestSessionID(r *http.Request) string {
	cookie, err := r.Cookie(ms.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
