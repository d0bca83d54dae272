package app

import (
	"github.com/labstack/echo/v4"

	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/metadata"
)

// Middleware is a request pipeline stage. It must call next to continue.
type Middleware interface {
	Use(c echo.Context, next echo.HandlerFunc) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(c echo.Context, next echo.HandlerFunc) error

// Use calls f(c, next).
func (f MiddlewareFunc) Use(c echo.Context, next echo.HandlerFunc) error {
	return f(c, next)
}

// MiddlewareClass declares a middleware. The constructor runs once per registration;
// the instance it returns serves every request of that registration.
type MiddlewareClass struct {
	name string
	ctor func() Middleware
}

// NewMiddleware declares a middleware. It must be marked with Injectable before use.
func NewMiddleware(name string, ctor func() Middleware) *MiddlewareClass {
	return &MiddlewareClass{name: name, ctor: ctor}
}

// Name returns the middleware name.
func (m *MiddlewareClass) Name() string {
	return m.name
}

// Injectable marks entities as injectable.
func Injectable(store *metadata.Store, entities ...metadata.Entity) {
	for _, e := range entities {
		store.Define(metadata.KeyInjectable, true, e)
	}
}

// gateMiddlewares checks that every class is injectable and constructs it, in order.
// The first offending class aborts with a ConfigurationError naming it.
func gateMiddlewares(store *metadata.Store, classes []*MiddlewareClass) ([]echo.MiddlewareFunc, error) {
	funcs := make([]echo.MiddlewareFunc, 0, len(classes))
	for _, class := range classes {
		if class == nil {
			return nil, configError(ErrInvalidMiddleware, "<nil>", "nil middleware")
		}
		if !metadata.IsInjectable(store, class) {
			return nil, configError(ErrNotInjectable, class.name, "")
		}
		if class.ctor == nil {
			return nil, configError(ErrInvalidMiddleware, class.name, "no constructor")
		}

		instance := class.ctor()
		if instance == nil {
			return nil, configError(ErrInvalidMiddleware, class.name, "constructor returned nil")
		}
		funcs = append(funcs, toEcho(instance))
	}
	return funcs, nil
}

// installMiddlewares gates the application middlewares and installs them ahead of every
// route. Nothing is installed when any of them is rejected.
func installMiddlewares(store *metadata.Store, classes []*MiddlewareClass, use func(...echo.MiddlewareFunc), log logger.Logger) error {
	funcs, err := gateMiddlewares(store, classes)
	if err != nil {
		return err
	}

	for i, fn := range funcs {
		use(fn)
		log.Info().
			Str("middleware", classes[i].name).
			Msg("middleware initialized")
	}
	return nil
}

func toEcho(m Middleware) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return m.Use(c, next)
		}
	}
}
