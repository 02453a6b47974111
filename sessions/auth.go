package sessions

import "encoding/json"

// Consolidated record key plus the flat keys older sessions were written
// with. Reads fall back to the flat keys; writes always produce the
// consolidated record and drop the flat keys.
const (
	authKey = "auth"

	legacyAuthenticatedKey = "authenticated"
	legacyUserIDKey        = "user_id"
	legacyAccessTokenKey   = "access_token"
)

// AuthRecord is the consolidated per-session authentication state.
type AuthRecord struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	AccessToken   string `json:"access_token"`
}

// SetAuthenticated writes the consolidated auth record and removes any
// legacy keys, upgrading older sessions in place.
func SetAuthenticated(s Session, userID, email, accessToken string) {
	record := AuthRecord{
		Authenticated: true,
		UserID:        userID,
		Email:         email,
		AccessToken:   accessToken,
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return
	}
	s.Set(authKey, string(encoded))
	s.Remove(legacyAuthenticatedKey)
	s.Remove(legacyUserIDKey)
	s.Remove(legacyAccessTokenKey)
}

// ClearAuthenticated removes the auth record and the legacy keys. Safe to
// call on a session that was never authenticated.
func ClearAuthenticated(s Session) {
	s.Remove(authKey)
	s.Remove(legacyAuthenticatedKey)
	s.Remove(legacyUserIDKey)
	s.Remove(legacyAccessTokenKey)
}

// IsAuthenticated reports whether the session carries a valid auth record.
// Unreadable data reads as unauthenticated, never as an error.
func IsAuthenticated(s Session) bool {
	if record, ok := readRecord(s); ok {
		return record.Authenticated
	}
	return s != nil && legacyFlag(s)
}

// UserID returns the authenticated user id, if any.
func UserID(s Session) (string, bool) {
	if record, ok := readRecord(s); ok {
		if record.Authenticated && record.UserID != "" {
			return record.UserID, true
		}
		return "", false
	}
	if s == nil || !legacyFlag(s) {
		return "", false
	}
	userID, ok := s.Get(legacyUserIDKey)
	return userID, ok && userID != ""
}

// AccessToken returns the stored access token, if any.
func AccessToken(s Session) (string, bool) {
	if record, ok := readRecord(s); ok {
		if record.Authenticated && record.AccessToken != "" {
			return record.AccessToken, true
		}
		return "", false
	}
	if s == nil || !legacyFlag(s) {
		return "", false
	}
	accessToken, ok := s.Get(legacyAccessTokenKey)
	return accessToken, ok && accessToken != ""
}

func readRecord(s Session) (AuthRecord, bool) {
	if s == nil {
		return AuthRecord{}, false
	}
	raw, ok := s.Get(authKey)
	if !ok {
		return AuthRecord{}, false
	}
	var record AuthRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return AuthRecord{}, false
	}
	return record, true
}

func legacyFlag(s Session) bool {
	flag, ok := s.Get(legacyAuthenticatedKey)
	return ok && flag == "true"
}
