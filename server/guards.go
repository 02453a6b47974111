package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/reforged/reforged/sessions"
	"github.com/reforged/reforged/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

// UserIDFromContext returns the authenticated user id injected by Protected.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

// GuestOnly redirects authenticated visitors to the home page. Used on the
// login and signup pages.
func (s *Server) GuestOnly() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session := s.store.Load(r)
			if sessions.IsAuthenticated(session) {
				http.Redirect(w, r, RouteHome, http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

// Protected admits only sessions whose stored access token still validates
// against the token service and the revocation store. Anything less tears
// the session down and redirects to login. No retries, no partial trust.
func (s *Server) Protected() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session := s.store.Load(r)
			if !sessions.IsAuthenticated(session) {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}

			accessToken, ok := sessions.AccessToken(session)
			if !ok {
				s.rejectSession(w, r, session)
				return
			}

			claims, err := s.tokens.Validate(accessToken, token.PurposeAccessToken)
			if err != nil {
				s.rejectSession(w, r, session)
				return
			}

			jti, _, err := s.tokens.Identify(accessToken)
			if err != nil {
				s.rejectSession(w, r, session)
				return
			}
			revoked, err := s.revocations.IsRevoked(r.Context(), jti)
			if err != nil {
				log.Err(err).Msg("revocation store lookup failed")
				s.rejectSession(w, r, session)
				return
			}
			if revoked {
				s.rejectSession(w, r, session)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.ID.String())
			next(w, r.WithContext(ctx))
		}
	}
}

func (s *Server) rejectSession(w http.ResponseWriter, r *http.Request, session sessions.Values) {
	sessions.ClearAuthenticated(session)
	if err := s.store.Save(w, session); err != nil {
		log.Err(err).Msg("failed to save cleared session")
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}
