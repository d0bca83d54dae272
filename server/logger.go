package server

import (
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/nuxum/logger"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	// SkipPaths are route paths that are never logged, e.g. the health endpoint.
	SkipPaths []string
}

// LoggerWithConfig logs one line per request. 5xx responses are logged at error level,
// 4xx at warn and everything else at info. Errors returned by the chain are answered
// here so the logged status is the one sent to the client.
func LoggerWithConfig(log logger.Logger, cfg LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			tid := traceID(c)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route != "" && slices.Contains(cfg.SkipPaths, route) {
				return nil
			}

			status := c.Response().Status
			event := levelFor(log, status)
			if err != nil {
				event = event.Err(err)
			}

			req := c.Request()
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", route).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("trace_id", tid).
				Str("client_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}

func levelFor(log logger.Logger, status int) logger.LogEvent {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	default:
		return log.Info()
	}
}

// traceID returns the trace ID of the request span and mirrors it in X-Trace-ID.
func traceID(c echo.Context) string {
	sc := trace.SpanContextFromContext(c.Request().Context())
	if !sc.HasTraceID() {
		return ""
	}
	id := sc.TraceID().String()
	c.Response().Header().Set(HeaderXTraceID, id)
	return id
}
