package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/validation"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// APIError is an error a handler can return to choose the response status and message.
type APIError struct {
	status  int
	message string
}

// NewAPIError creates an error answered with status and {"message": message}.
func NewAPIError(status int, message string) *APIError {
	return &APIError{status: status, message: message}
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

// NewNotFoundError creates a 404 error for resource.
func NewNotFoundError(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, resource+" not found")
}

// NewConflictError creates a 409 error.
func NewConflictError(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

// NewForbiddenError creates a 403 error.
func NewForbiddenError(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message)
}

// HTTPStatus returns the response status.
func (e *APIError) HTTPStatus() int {
	return e.status
}

// Message returns the response message.
func (e *APIError) Message() string {
	return e.message
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.message
}

// errorHandler answers every error returned through the echo chain. Unmatched routes
// (404 and 405 from the router) become 404 {"message":"Not Found"}.
func errorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		apiErr  *APIError
		valErr  *validation.Error
		reqErr  *ValidationError
		echoErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr.status, ErrorResponse{Message: apiErr.message}
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrorResponse{Message: valErr.Error()}
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, ErrorResponse{Message: reqErr.Error(), Errors: reqErr.Errors}
	case errors.As(err, &echoErr):
		if echoErr.Code == http.StatusNotFound || echoErr.Code == http.StatusMethodNotAllowed {
			return http.StatusNotFound, ErrorResponse{Message: MessageNotFound}
		}
		return echoErr.Code, ErrorResponse{Message: httpErrorMessage(echoErr)}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)}
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	default:
		return http.StatusText(he.Code)
	}
}
