package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/propagation"

	"github.com/gaborage/nuxum/logger"
)

// SetupMiddlewares registers the built-in middlewares: panic recovery, request IDs,
// tracing, request logging, CORS, default headers, body limit, rate limiting and JSON
// body decoding. Application middlewares are installed after these.
func (s *Server) SetupMiddlewares() {
	e, cfg, log := s.echo, s.cfg, s.logger

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, _ []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("panic recovered")
			return err
		},
	}))

	e.Use(RequestID(log))

	if s.tracerProvider != nil {
		e.Use(otelecho.Middleware(cfg.App.Name,
			otelecho.WithTracerProvider(s.tracerProvider),
			otelecho.WithPropagators(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			)),
		))
	}

	e.Use(LoggerWithConfig(log, LoggerConfig{SkipPaths: []string{s.healthPath}}))

	if cfg.CORS.Enabled {
		e.Use(CORS(cfg.CORS))
	}

	if len(cfg.Headers) > 0 {
		e.Use(DefaultHeaders(cfg.Headers))
	}

	if cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	e.Use(RateLimit(cfg.Rate))

	e.Use(BodyParser())
}

// RequestID sets X-Request-ID (a UUID unless the client sent one) and stores a logger
// carrying the ID in the request context.
func RequestID(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			scoped := log.WithFields(map[string]any{"request_id": id})
			ctx := logger.WithLogger(c.Request().Context(), scoped)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

// DefaultHeaders sets headers on every response.
func DefaultHeaders(headers map[string]string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}
