package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/gaborage/nuxum/logger"
)

type recordingRegistrar struct {
	calls []string
}

func (r *recordingRegistrar) Add(method, path string, _ echo.HandlerFunc, middleware ...echo.MiddlewareFunc) []*echo.Route {
	r.calls = append(r.calls, method+" "+path+strings.Repeat("+", len(middleware)))
	return nil
}

func TestRouteRegistryRegister(t *testing.T) {
	registrar := &recordingRegistrar{}
	var buf bytes.Buffer
	registry := NewRouteRegistry(registrar, logger.NewWithWriter(&buf, "info", false))

	mw := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	registry.Register([]Route{
		{Method: "GET", Path: "/a", Handler: noop, Module: "M", Controller: "A"},
		{Method: "POST", Path: "/a", Handler: noop, Module: "M", Controller: "A", Middlewares: []echo.MiddlewareFunc{mw}},
		{Method: "GET", Path: "/b", Handler: noop, Module: "M", Controller: "B"},
		{Method: "GET", Path: "/a2", Handler: noop, Module: "N", Controller: "A"},
	})

	assert.Equal(t, []string{"GET /a", "POST /a+", "GET /b", "GET /a2"}, registrar.calls)
	assert.Len(t, registry.Routes(), 4)

	logs := buf.String()
	assert.Equal(t, 4, strings.Count(logs, "route added"))
	assert.Equal(t, 3, strings.Count(logs, "controller initialized"))
}

func TestRouteRegistryEmpty(t *testing.T) {
	registry := NewRouteRegistry(&recordingRegistrar{}, nil)
	registry.Register(nil)
	assert.Empty(t, registry.Routes())
	assert.NotNil(t, registry.Routes())
}
