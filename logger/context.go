package logger

import "context"

type contextKey struct{}

// WithLogger returns a copy of ctx carrying l. The server stores the request-scoped
// logger this way so handlers log with the request ID attached.
func WithLogger(ctx context.Context, l Logger) context.Context {
	if ctx == nil || l == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
// A nil fallback yields a no-op logger.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(Logger); ok {
			return l
		}
	}
	if fallback == nil {
		return Nop()
	}
	return fallback
}
