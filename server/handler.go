package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/nuxum/validation"
)

// Schemas holds the field lists enforced before a handler runs. Empty lists are not
// checked.
type Schemas struct {
	Query []validation.Field
	Body  []validation.Field
}

// Empty reports whether no validation is configured.
func (s Schemas) Empty() bool {
	return len(s.Query) == 0 && len(s.Body) == 0
}

// WrapHandler returns a handler that validates the query string and then the body
// against schemas, in that order. The first failure is answered with
// 400 {"message": ...} and raw is not called. Otherwise raw runs with the same context.
func WrapHandler(raw echo.HandlerFunc, schemas Schemas) echo.HandlerFunc {
	if schemas.Empty() {
		return raw
	}

	return func(c echo.Context) error {
		if len(schemas.Query) > 0 {
			if err := validation.ValidateQuery(QueryMap(c), schemas.Query); err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			}
		}

		if len(schemas.Body) > 0 {
			if err := validation.ValidateBody(Body(c), schemas.Body); err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			}
		}

		return raw(c)
	}
}
