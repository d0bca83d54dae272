// Package server provides the HTTP layer on top of Echo: built-in middlewares, route
// registration, request validation and error responses.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/logger"
)

// Server represents an HTTP server instance with Echo framework.
type Server struct {
	echo           *echo.Echo
	cfg            *config.Config
	logger         logger.Logger
	tracerProvider trace.TracerProvider
	healthPath     string

	// registered holds the methods added per declared path, aliases excluded.
	registered map[string]map[string]bool
}

// Option customizes a Server.
type Option func(*Server)

// WithTracerProvider enables request tracing with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// New creates a server from cfg. Built-in middlewares are installed and the health
// endpoint is registered when configured; application routes are added with Add.
func New(cfg *config.Config, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Validator = NewValidator()

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Server.Path.Health != "" {
		s.healthPath = JoinPath(cfg.Server.Prefix, cfg.Server.Path.Health)
	}

	s.SetupMiddlewares()

	if s.healthPath != "" {
		e.GET(s.healthPath, s.healthCheck)
		log.Debug().Str("path", s.healthPath).Msg("health endpoint registered")
	}

	return s
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Use installs middleware ahead of every route.
func (s *Server) Use(middleware ...echo.MiddlewareFunc) {
	s.echo.Use(middleware...)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return net.JoinHostPort(s.cfg.Server.Host, fmt.Sprint(s.cfg.Server.Port))
}

// Start starts the HTTP server and blocks until it is shut down. A graceful shutdown
// returns nil.
func (s *Server) Start() error {
	addr := s.Address()

	s.logger.Info().
		Str("service", s.cfg.App.Name).
		Str("version", s.cfg.App.Version).
		Str("env", s.cfg.App.Env).
		Str("address", addr).
		Msg("listening")

	// Shutdown stops echo's own http.Server, so that one is configured and started.
	srv := s.echo.Server
	srv.ReadTimeout = s.cfg.Server.Timeout.Read
	srv.WriteTimeout = s.cfg.Server.Timeout.Write
	srv.IdleTimeout = s.cfg.Server.Timeout.Idle

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
