package sessions

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "reforged_session"

// DefaultCookieMaxAge bounds how long a session cookie stays valid.
const DefaultCookieMaxAge = 7 * 24 * time.Hour

// CookieStore keeps the whole session in an HS256-signed JWT cookie.
// A cookie that fails signature or claim checks loads as an empty session.
type CookieStore struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
	nowFunc    func() time.Time
}

// CookieStoreOption configures optional CookieStore behaviour.
type CookieStoreOption func(*CookieStore)

// WithCookieName overrides the cookie name.
func WithCookieName(name string) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.cookieName = name
	}
}

// WithSecureCookie marks the cookie Secure, for TLS deployments.
func WithSecureCookie(secure bool) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.secure = secure
	}
}

// WithCookieNowFunc overrides the clock, used by tests.
func WithCookieNowFunc(now func() time.Time) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.nowFunc = now
	}
}

// NewCookieStore constructs a cookie store signing with the given secret.
func NewCookieStore(secret []byte, options ...CookieStoreOption) (*CookieStore, error) {
	if len(secret) == 0 {
		return nil, errors.New("[NewCookieStore] empty signing secret")
	}

	cs := &CookieStore{
		secret:     secret,
		cookieName: DefaultCookieName,
		maxAge:     DefaultCookieMaxAge,
		nowFunc:    time.Now,
	}

	for _, option := range options {
		option(cs)
	}

	return cs, nil
}

type cookieClaims struct {
	Session map[string]string `json:"sess"`
	jwt.RegisteredClaims
}

// Load reads the session from the request cookie. Missing, malformed or
// tampered cookies all produce an empty session.
func (cs *CookieStore) Load(r *http.Request) Values {
	cookie, err := r.Cookie(cs.cookieName)
	if err != nil || cookie.Value == "" {
		return NewValues()
	}

	claims := &cookieClaims{}
	parsed, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return cs.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(cs.nowFunc))
	if err != nil || !parsed.Valid {
		return NewValues()
	}

	session := NewValues()
	for key, value := range claims.Session {
		session.Set(key, value)
	}
	return session
}

// Save signs the session into the response cookie. An empty session clears
// the cookie instead.
func (cs *CookieStore) Save(w http.ResponseWriter, session Values) error {
	if len(session) == 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     cs.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cs.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	now := cs.nowFunc()
	claims := &cookieClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cs.maxAge)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cs.secret)
	if err != nil {
		return errors.Wrap(err, "[CookieStore.Save] signing session cookie")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cs.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(cs.maxAge / time.Second),
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
