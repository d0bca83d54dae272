package app

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/nuxum/metadata"
	"github.com/gaborage/nuxum/validation"
)

// Controller is a group of route handlers sharing one or more base paths. Handlers are
// registered in the order they are declared.
type Controller struct {
	name  string
	store *metadata.Store
}

// NewController declares a controller mounted at every base path (default "/").
func NewController(store *metadata.Store, name string, basePaths ...string) *Controller {
	c := &Controller{name: name, store: store}
	store.Define(metadata.KeyController, true, c)
	if len(basePaths) > 0 {
		store.Define(metadata.KeyRoutePath, basePaths, c)
	}
	store.Define(metadata.KeyControllerRoutes, []*Handler{}, c)
	return c
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// Handle declares a handler for method at the given sub paths (default "/").
func (c *Controller) Handle(method Method, fn echo.HandlerFunc, paths ...string) *Handler {
	h := &Handler{fn: fn, store: c.store, controller: c}
	c.store.Define(metadata.KeyHTTPMethod, method, h)
	if len(paths) > 0 {
		c.store.Define(metadata.KeyRoutePath, paths, h)
	}

	handlers, _ := metadata.Lookup[[]*Handler](c.store, metadata.KeyControllerRoutes, c)
	c.store.Define(metadata.KeyControllerRoutes, append(handlers[:len(handlers):len(handlers)], h), c)
	return h
}

func (c *Controller) GET(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(GET, fn, path)
}

func (c *Controller) POST(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(POST, fn, path)
}

func (c *Controller) PUT(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(PUT, fn, path)
}

func (c *Controller) DELETE(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(DELETE, fn, path)
}

func (c *Controller) PATCH(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(PATCH, fn, path)
}

func (c *Controller) OPTIONS(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(OPTIONS, fn, path)
}

func (c *Controller) HEAD(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(HEAD, fn, path)
}

// Any declares a handler answering every method.
func (c *Controller) Any(path string, fn echo.HandlerFunc) *Handler {
	return c.Handle(ALL, fn, path)
}

// Handler is one declared route handler of a controller.
type Handler struct {
	name       string
	fn         echo.HandlerFunc
	store      *metadata.Store
	controller *Controller
}

// Name returns the handler name, "controller.name" once Named was called and
// "controller.METHOD path" otherwise.
func (h *Handler) Name() string {
	if h.name != "" {
		return h.controller.name + "." + h.name
	}
	method, _ := h.store.Get(metadata.KeyHTTPMethod, h)
	name := h.controller.name + "." + strings.ToUpper(fmt.Sprint(method))
	if paths := stringList(h.store, metadata.KeyRoutePath, h); len(paths) > 0 {
		name += " " + paths[0]
	}
	return name
}

// Named sets the handler name used in logs and route listings.
func (h *Handler) Named(name string) *Handler {
	h.name = name
	return h
}

// Query sets the fields the query string is validated against.
func (h *Handler) Query(fields ...validation.Field) *Handler {
	h.store.Define(metadata.KeyQuerySchema, fields, h)
	return h
}

// Body sets the fields the JSON body is validated against.
func (h *Handler) Body(fields ...validation.Field) *Handler {
	h.store.Define(metadata.KeyBodySchema, fields, h)
	return h
}

// Use adds middlewares run before this handler only. Each must be injectable.
func (h *Handler) Use(middlewares ...*MiddlewareClass) *Handler {
	current, _ := metadata.Lookup[[]*MiddlewareClass](h.store, metadata.KeyRouteMiddlewares, h)
	h.store.Define(metadata.KeyRouteMiddlewares, append(current[:len(current):len(current)], middlewares...), h)
	return h
}

// Module groups controllers and imported modules.
type Module struct {
	name string
}

// ModuleDecl lists what a module contains, in registration order. Imports are
// expanded before the module's own controllers.
type ModuleDecl struct {
	Imports     []metadata.Entity
	Controllers []metadata.Entity
}

// NewModule declares a module.
func NewModule(store *metadata.Store, name string, decl ModuleDecl) *Module {
	m := &Module{name: name}
	store.Define(metadata.KeyModule, true, m)
	store.Define(metadata.KeyModuleImports, decl.Imports, m)
	store.Define(metadata.KeyModuleControllers, decl.Controllers, m)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// stringList reads a path value stored either as a string or a list of strings.
func stringList(store *metadata.Store, key metadata.Key, entity metadata.Entity) []string {
	raw, ok := store.Get(key, entity)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}
