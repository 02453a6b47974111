package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reforged/reforged/auth"
	"github.com/reforged/reforged/internal/config"
	"github.com/reforged/reforged/server"
	"github.com/reforged/reforged/sessions"
	"github.com/reforged/reforged/token"
	"github.com/reforged/reforged/token/revocationstore"
	"github.com/reforged/reforged/users"
	"github.com/reforged/reforged/users/postgres"
	fakeuserrepo "github.com/reforged/reforged/users/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config.New")
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	srv, cleanup, err := buildServer(c)
	if err != nil {
		return errors.Wrap(err, "buildServer")
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, func(), error) {
	cleanup := func() {}

	keyBytes, err := c.TokenSymmetricKeyBytes()
	if err != nil {
		return nil, cleanup, err
	}
	tokenService, err := token.NewService(keyBytes)
	if err != nil {
		return nil, cleanup, err
	}

	userRepo, repoCleanup, err := buildUserRepo(c)
	if err != nil {
		return nil, cleanup, err
	}

	authService, err := auth.NewService(userRepo, users.NewArgon2Hasher(), tokenService,
		auth.WithExpiries(
			c.GetAccessTokenExpiry(),
			c.GetRefreshTokenExpiry(),
			c.GetResetTokenExpiry(),
			c.GetVerificationTokenExpiry(),
		))
	if err != nil {
		repoCleanup()
		return nil, cleanup, err
	}

	cookieStore, err := sessions.NewCookieStore([]byte(c.GetSessionSecret()),
		sessions.WithSecureCookie(c.GetEnv() != "DEV"))
	if err != nil {
		repoCleanup()
		return nil, cleanup, err
	}

	srv, err := server.New(c, authService, tokenService, buildRevocationStore(c), cookieStore)
	if err != nil {
		repoCleanup()
		return nil, cleanup, err
	}
	return srv, repoCleanup, nil
}

func buildUserRepo(c config.Config) (users.UserRepo, func(), error) {
	databaseURL := c.GetDatabaseURL()
	if databaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory user store")
		return fakeuserrepo.NewFakeUserRepo(), func() {}, nil
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "connecting to postgres")
	}
	return postgres.NewUserRepo(pool), pool.Close, nil
}

func buildRevocationStore(c config.Config) token.RevocationStore {
	redisAddr := c.GetRedisAddr()
	if redisAddr == "" {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory revocation store")
		return revocationstore.NewMemoryStore()
	}
	return revocationstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: redisAddr}))
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) error {
	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
