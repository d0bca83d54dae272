package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type parsedBody struct {
	value any
}

// BodyParser decodes JSON request bodies once and keeps the result on the context
// under BodyKey. The request body is restored so handlers can still Bind it.
// Malformed JSON is answered with 400 {"message": "Invalid JSON body"}.
func BodyParser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody || !isJSON(req.Header.Get(echo.HeaderContentType)) {
				return next(c)
			}

			raw, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			_ = req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(raw))

			if len(bytes.TrimSpace(raw)) == 0 {
				return next(c)
			}

			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Message: MessageInvalidJSON})
			}
			c.Set(BodyKey, parsedBody{value: value})

			return next(c)
		}
	}
}

// Body returns the decoded JSON body of the request, or an empty object when the
// request carried none.
func Body(c echo.Context) any {
	if p, ok := c.Get(BodyKey).(parsedBody); ok {
		return p.value
	}
	return map[string]any{}
}

// QueryMap returns the first value of every query parameter.
func QueryMap(c echo.Context) map[string]string {
	params := c.QueryParams()
	out := make(map[string]string, len(params))
	for k, v := range params {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == echo.MIMEApplicationJSON || strings.HasSuffix(mt, "+json")
}
