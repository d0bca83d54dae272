package app

import (
	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/server"
)

// RouteRegistry registers resolved routes on a server and keeps them for
// introspection.
type RouteRegistry struct {
	registrar server.RouteRegistrar
	logger    logger.Logger
	routes    []Route
}

// NewRouteRegistry creates an empty registry writing to registrar.
func NewRouteRegistry(registrar server.RouteRegistrar, log logger.Logger) *RouteRegistry {
	if log == nil {
		log = logger.Nop()
	}
	return &RouteRegistry{
		registrar: registrar,
		logger:    log,
		routes:    make([]Route, 0),
	}
}

// Register adds routes in order. Each one is logged, followed by one line per
// controller once all of its routes are in.
func (r *RouteRegistry) Register(routes []Route) {
	for i, route := range routes {
		r.registrar.Add(route.Method, route.Path, route.Handler, route.Middlewares...)
		r.routes = append(r.routes, route)

		r.logger.Info().
			Str("method", route.Method).
			Str("path", route.Path).
			Str("handler", route.Name).
			Msg("route added")

		last := i == len(routes)-1
		if last || routes[i+1].Controller != route.Controller || routes[i+1].Module != route.Module {
			r.logger.Info().
				Str("module", route.Module).
				Str("controller", route.Controller).
				Msg("controller initialized")
		}
	}
}

// Routes returns a copy of the registered routes in registration order.
func (r *RouteRegistry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}
