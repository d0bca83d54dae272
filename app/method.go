package app

import (
	"net/http"
	"strings"

	"github.com/gaborage/nuxum/server"
)

// Method is the HTTP method a handler is registered for.
type Method string

// Supported methods. ALL matches every method.
const (
	GET     Method = http.MethodGet
	POST    Method = http.MethodPost
	PUT     Method = http.MethodPut
	DELETE  Method = http.MethodDelete
	PATCH   Method = http.MethodPatch
	OPTIONS Method = http.MethodOptions
	HEAD    Method = http.MethodHead
	ALL     Method = server.MethodAll
)

// Valid reports whether m belongs to the supported set.
func (m Method) Valid() bool {
	return server.IsKnownMethod(string(m))
}

func (m Method) String() string {
	return strings.ToUpper(string(m))
}
