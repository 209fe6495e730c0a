// Package echoapi exposes the data-steward dashboard API over echo.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/editing"
	"github.com/kundihq/kundi/core/gamify"
	"github.com/kundihq/kundi/core/roster"
)

type (
	// Authenticator checks an operator's upstream credential pair at login.
	Authenticator interface {
		Verify(appID, secret string) error
	}

	// AuditJournal reads back the committed-edit journal.
	AuditJournal interface {
		RecentEdits(ctx context.Context, limit int) ([]editing.AuditEntry, error)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Roster     *roster.Service
		Window     *editing.PendingWindow
		History    *editing.History
		Stats      *gamify.Tracker
		Auth       Authenticator
		Audit      AuditJournal       // optional
		Settings   roster.CutoffStore // optional
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps ServerDeps
		app  *echo.Echo

		serverErrors chan error
		shutdownSig  chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:         deps,
		app:          echo.New(),
		serverErrors: make(chan error, 1),
		shutdownSig:  make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	registerStewardAPI(api, jwt, s.deps)
}

// Start runs the listener and blocks until it exits; a listener failure lands
// on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdownSig, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.serverErrors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.serverErrors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdownSig }

// SignalShutdown requests a graceful stop, same path as an OS signal.
func (s *Server) SignalShutdown() { s.shutdownSig <- syscall.SIGTERM }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Kundi API!")
}
