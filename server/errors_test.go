package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/gaborage/nuxum/validation"
)

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "api_error", err: NewNotFoundError("user"), status: http.StatusNotFound, message: "user not found"},
		{name: "wrapped_api_error", err: fmt.Errorf("lookup: %w", NewConflictError("exists")), status: http.StatusConflict, message: "exists"},
		{name: "validation_error", err: validation.ValidateQuery(map[string]string{}, validation.Bare("q")), status: http.StatusBadRequest, message: "Missing required query parameter: q"},
		{name: "echo_not_found", err: echo.ErrNotFound, status: http.StatusNotFound, message: "Not Found"},
		{name: "echo_method_not_allowed", err: echo.ErrMethodNotAllowed, status: http.StatusNotFound, message: "Not Found"},
		{name: "echo_custom_message", err: echo.NewHTTPError(http.StatusTeapot, "short and stout"), status: http.StatusTeapot, message: "short and stout"},
		{name: "echo_error_message", err: echo.NewHTTPError(http.StatusBadGateway, errors.New("upstream")), status: http.StatusBadGateway, message: "upstream"},
		{name: "echo_no_message", err: &echo.HTTPError{Code: http.StatusGone}, status: http.StatusGone, message: "Gone"},
		{name: "unknown", err: errors.New("db down"), status: http.StatusInternalServerError, message: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestAPIErrorConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("x").HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("x").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, NewForbiddenError("x").HTTPStatus())
	assert.Equal(t, "x", NewForbiddenError("x").Message())
	assert.Equal(t, "x", NewAPIError(http.StatusAccepted, "x").Error())

	var nilErr *APIError
	assert.Empty(t, nilErr.Error())
}

func TestHandlerErrorsAreLogged(t *testing.T) {
	s, buf := newTestServer(t, nil)
	s.Add(http.MethodGet, "/fail", func(echo.Context) error { return errors.New("db down") })
	s.Add(http.MethodGet, "/missing", func(echo.Context) error { return NewNotFoundError("user") })

	rec := serve(s, http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "unhandled error")

	rec = serve(s, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"user not found"}`, rec.Body.String())
}

func TestHeadRequestErrorHasNoBody(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := serve(s, http.MethodHead, "/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
