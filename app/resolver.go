package app

import (
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/nuxum/metadata"
	"github.com/gaborage/nuxum/server"
	"github.com/gaborage/nuxum/validation"
)

// Route is one resolved registration: a method, a full path and the dispatch function
// that validates the request before calling the declared handler.
type Route struct {
	Method      string
	Path        string
	Handler     echo.HandlerFunc
	Module      string
	Controller  string
	Name        string
	Middlewares []echo.MiddlewareFunc
}

// Resolve expands modules into the ordered list of routes they declare.
//
// Each module's imports are expanded depth-first before its own controllers. A module
// reached again through another import path is skipped: its routes are registered
// once, not once per importer. An import cycle is rejected.
//
// Every path is prefix + controller base path + handler sub path with runs of "/"
// collapsed. Routes sharing a method and path are all kept.
func Resolve(store *metadata.Store, modules []metadata.Entity, prefix string) ([]Route, error) {
	r := &resolver{
		store:    store,
		prefix:   prefix,
		expanded: make(map[metadata.Entity]bool),
		visiting: make(map[metadata.Entity]bool),
	}

	for _, m := range modules {
		if err := r.module(m); err != nil {
			return nil, err
		}
	}
	return r.routes, nil
}

type resolver struct {
	store    *metadata.Store
	prefix   string
	routes   []Route
	expanded map[metadata.Entity]bool
	visiting map[metadata.Entity]bool
	stack    []string
}

func (r *resolver) module(m metadata.Entity) error {
	if !metadata.IsModule(r.store, m) {
		return configError(ErrNotModule, entityName(m), "")
	}

	if r.visiting[m] {
		return configError(ErrImportCycle, m.Name(), strings.Join(append(r.stack, m.Name()), " -> "))
	}
	if r.expanded[m] {
		return nil
	}

	r.visiting[m] = true
	r.stack = append(r.stack, m.Name())
	defer func() {
		delete(r.visiting, m)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	imports, _ := metadata.Lookup[[]metadata.Entity](r.store, metadata.KeyModuleImports, m)
	for _, imp := range imports {
		if err := r.module(imp); err != nil {
			return err
		}
	}

	controllers, _ := metadata.Lookup[[]metadata.Entity](r.store, metadata.KeyModuleControllers, m)
	for _, c := range controllers {
		if err := r.controller(m, c); err != nil {
			return err
		}
	}

	r.expanded[m] = true
	return nil
}

func (r *resolver) controller(m, c metadata.Entity) error {
	if !metadata.IsController(r.store, c) {
		return configError(ErrNotController, entityName(c), "")
	}

	bases := stringList(r.store, metadata.KeyRoutePath, c)
	if len(bases) == 0 {
		bases = []string{"/"}
	}

	handlers, _ := metadata.Lookup[[]*Handler](r.store, metadata.KeyControllerRoutes, c)
	for _, h := range handlers {
		// Only function-valued declarations are routes.
		if h == nil || h.fn == nil {
			continue
		}

		method, err := r.method(h)
		if err != nil {
			return err
		}

		middlewares, err := r.middlewares(h)
		if err != nil {
			return err
		}

		subs := stringList(r.store, metadata.KeyRoutePath, h)
		if len(subs) == 0 {
			subs = []string{"/"}
		}

		dispatch := server.WrapHandler(h.fn, r.schemas(h))
		for _, base := range bases {
			for _, sub := range subs {
				r.routes = append(r.routes, Route{
					Method:      method,
					Path:        server.JoinPath(r.prefix, base, sub),
					Handler:     dispatch,
					Module:      m.Name(),
					Controller:  c.Name(),
					Name:        h.Name(),
					Middlewares: middlewares,
				})
			}
		}
	}
	return nil
}

func (r *resolver) method(h *Handler) (string, error) {
	raw, _ := r.store.Get(metadata.KeyHTTPMethod, h)

	var method Method
	switch v := raw.(type) {
	case Method:
		method = v
	case string:
		method = Method(v)
	}

	if !method.Valid() {
		return "", configError(ErrUnknownMethod, h.Name(), string(method))
	}
	return method.String(), nil
}

func (r *resolver) schemas(h *Handler) server.Schemas {
	query, _ := metadata.Lookup[[]validation.Field](r.store, metadata.KeyQuerySchema, h)
	body, _ := metadata.Lookup[[]validation.Field](r.store, metadata.KeyBodySchema, h)
	return server.Schemas{Query: query, Body: body}
}

func (r *resolver) middlewares(h *Handler) ([]echo.MiddlewareFunc, error) {
	classes, _ := metadata.Lookup[[]*MiddlewareClass](r.store, metadata.KeyRouteMiddlewares, h)
	if len(classes) == 0 {
		return nil, nil
	}
	return gateMiddlewares(r.store, classes)
}

func entityName(e metadata.Entity) string {
	if e == nil {
		return "<nil>"
	}
	if v := reflect.ValueOf(e); v.Kind() == reflect.Pointer && v.IsNil() {
		return "<nil>"
	}
	return e.Name()
}
