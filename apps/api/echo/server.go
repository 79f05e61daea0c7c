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

	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
)

type (
	Deps struct {
		Conf         *core.Config
		Logger       core.Logger
		GradebookSvc gradebook.Service
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		addr string
		deps *Deps
		app  *echo.Echo

		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, deps *Deps) Server {
	s := &server{
		addr:     addr,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	debug := s.deps.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.deps.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerGradebookAPI(v1, s.deps.GradebookSvc, s.deps.Validate, s.deps.Translator)
}

func (s *server) Start() {
	s.errors <- s.app.Start(s.addr)
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown requests a graceful shutdown when an integrity issue is caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

// Shutdown stops accepting new requests and drains outstanding ones until ctx expires.
func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// Close force-stops the server when a graceful Shutdown failed.
func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Gradebook API!")
}
