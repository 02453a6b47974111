package sessions

// FlashKind classifies a one-shot notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"

	flashKindKey    = "flash_kind"
	flashMessageKey = "flash_message"
)

// SetFlash stores a one-shot notice, replacing any pending one.
func SetFlash(s Session, kind FlashKind, message string) {
	s.Set(flashKindKey, string(kind))
	s.Set(flashMessageKey, message)
}

// TakeFlash returns the pending notice and removes it from the session.
func TakeFlash(s Session) (FlashKind, string, bool) {
	kind, ok := s.Get(flashKindKey)
	if !ok {
		return "", "", false
	}
	message, _ := s.Get(flashMessageKey)
	s.Remove(flashKindKey)
	s.Remove(flashMessageKey)
	return FlashKind(kind), message, true
}
