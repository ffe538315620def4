// Package api serves the calculators over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SessionStore is the part of storage the session endpoints use.
type SessionStore interface {
	SaveSession(ctx context.Context, s *session.Session) error
	FindSession(ctx context.Context, ref string) (*session.Session, error)
	ListSessions(ctx context.Context) ([]storage.SessionInfo, error)
	DeleteSession(ctx context.Context, id string) error
}

type (
	// Options configure the server.
	Options struct {
		// Storage enables the /v1/sessions endpoints when set.
		Storage        SessionStore
		Address        string
		Version        string
		DisableReqLogs bool
		Debug          bool
	}

	// Server is the HTTP API.
	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts      *Options
		app       *echo.Echo
		validator *Validator
	}
)

var _ Server = (*server)(nil)

// NewServer builds the API with its routes registered.
func NewServer(opts *Options) Server {
	s := &server{
		opts:      opts,
		app:       echo.New(),
		validator: NewValidator(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Validator = s.validator
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.validator)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.Recover())
	}

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	v1.GET("/kinds", listKinds)
	v1.GET("/scales/:mode", getScale)
	v1.POST("/calculate/:kind", calculate)
	v1.POST("/targets/final", solveFinal)
	v1.POST("/targets/future", solveFuture)
	v1.POST("/convert", convert)

	if s.opts.Storage != nil {
		registerSessionAPI(v1, s.opts.Storage)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				slog.Warn("Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *server) Start() error {
	slog.Info("Starting API server", "address", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"name":    "gpa",
		"status":  "ok",
		"version": s.opts.Version,
	})
}
