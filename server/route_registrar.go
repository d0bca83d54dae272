package server

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// RouteRegistrar registers handlers on the server.
type RouteRegistrar interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) []*echo.Route
}

// NormalizePath collapses runs of "/" into one. Nothing else is changed: trailing
// slashes and dot segments are kept.
func NormalizePath(path string) string {
	return repeatedSlashes.ReplaceAllString(path, "/")
}

// JoinPath concatenates segments and normalizes the result.
func JoinPath(segments ...string) string {
	return NormalizePath(strings.Join(segments, ""))
}

// Add registers handler for method and path. MethodAll registers every method. A path
// with a trailing slash is also served without it and the other way round, unless that
// twin was itself registered: a registered path always keeps its own handler.
func (s *Server) Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) []*echo.Route {
	method = strings.ToUpper(method)
	path = ensureLeadingSlash(path)
	s.markRegistered(method, path)

	var routes []*echo.Route
	for i, p := range pathAliases(path) {
		if i > 0 && s.aliasShadowed(method, p) {
			continue
		}
		if method == MethodAll {
			routes = append(routes, s.echo.Any(p, handler, middleware...)...)
			continue
		}
		routes = append(routes, s.echo.Add(method, p, handler, middleware...))
	}
	return routes
}

func (s *Server) markRegistered(method, path string) {
	if s.registered == nil {
		s.registered = make(map[string]map[string]bool)
	}
	if s.registered[path] == nil {
		s.registered[path] = make(map[string]bool)
	}
	s.registered[path][method] = true
}

// aliasShadowed reports whether a registered route already owns method on path.
func (s *Server) aliasShadowed(method, path string) bool {
	methods := s.registered[path]
	if method == MethodAll {
		return len(methods) > 0
	}
	return methods[method] || methods[MethodAll]
}

func pathAliases(path string) []string {
	if path == "/" {
		return []string{path}
	}
	if strings.HasSuffix(path, "/") {
		return []string{path, strings.TrimRight(path, "/")}
	}
	return []string{path, path + "/"}
}

func ensureLeadingSlash(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// IsKnownMethod reports whether method can be registered.
func IsKnownMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodPatch, http.MethodOptions, http.MethodHead, MethodAll:
		return true
	default:
		return false
	}
}
