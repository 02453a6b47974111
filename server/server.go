package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/reforged/reforged/auth"
	"github.com/reforged/reforged/internal/config"
	"github.com/reforged/reforged/sessions"
	"github.com/reforged/reforged/token"
)

// Server wires the auth service, token service, revocation store and the
// session cookie store behind an http.ServeMux.
type Server struct {
	env         string // Environment (e.g., "DEV", "production")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	auth        *auth.Service
	tokens      *token.Service
	revocations token.RevocationStore
	store       *sessions.CookieStore
}

func New(cfg config.Config, authService *auth.Service, tokenService *token.Service, revocations token.RevocationStore, store *sessions.CookieStore) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[Server New] nil auth service")
	}
	if tokenService == nil {
		return nil, errors.New("[Server New] nil token service")
	}
	if revocations == nil {
		return nil, errors.New("[Server New] nil revocation store")
	}
	if store == nil {
		return nil, errors.New("[Server New] nil session store")
	}

	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		auth:        authService,
		tokens:      tokenService,
		revocations: revocations,
		store:       store,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
