// Package sessions holds the per-request session state and the bridge
// between the consolidated auth record and the flat legacy session keys.
package sessions

// Session is an opaque string key/value store scoped to one browser session.
type Session interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Clear()
}

// Values is the map-backed Session used by every store. Not safe for
// concurrent use, sessions are request-scoped.
type Values map[string]string

// NewValues returns an empty session.
func NewValues() Values {
	return Values{}
}

func (v Values) Get(key string) (string, bool) {
	value, ok := v[key]
	return value, ok
}

func (v Values) Set(key, value string) {
	v[key] = value
}

func (v Values) Remove(key string) {
	delete(v, key)
}

func (v Values) Clear() {
	for key := range v {
		delete(v, key)
	}
}
