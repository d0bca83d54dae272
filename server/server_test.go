package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/logger"
)

const testUsersPath = "/users"

func newTestServer(t *testing.T, mutate func(*config.Config), opts ...Option) (*Server, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	var buf bytes.Buffer
	return New(cfg, logger.NewWithWriter(&buf, "debug", false), opts...), &buf
}

func serve(s *Server, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestUnmatchedRouteIsNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Add(http.MethodGet, testUsersPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown_path", method: http.MethodGet, path: "/nothing"},
		{name: "wrong_method", method: http.MethodDelete, path: testUsersPath},
		{name: "root", method: http.MethodGet, path: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, buf := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Prefix = "/api"
		cfg.Server.Path.Health = "/health"
	})

	rec := serve(s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotContains(t, buf.String(), `"message":"request"`)
}

func TestHealthEndpointDisabledByDefault(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/health", nil).Code)
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Add(http.MethodGet, testUsersPath, func(c echo.Context) error {
		logger.FromContext(c.Request().Context(), nil).Info().Msg("inside handler")
		return c.NoContent(http.StatusOK)
	})

	rec := serve(s, http.MethodGet, testUsersPath, nil)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	rec = serve(s, http.MethodGet, testUsersPath, nil, echo.HeaderXRequestID, "client-id")
	assert.Equal(t, "client-id", rec.Header().Get(echo.HeaderXRequestID))
}

func TestHandlerLoggerCarriesRequestID(t *testing.T) {
	s, buf := newTestServer(t, nil)
	s.Add(http.MethodGet, testUsersPath, func(c echo.Context) error {
		logger.FromContext(c.Request().Context(), nil).Info().Msg("inside handler")
		return c.NoContent(http.StatusOK)
	})

	serve(s, http.MethodGet, testUsersPath, nil, echo.HeaderXRequestID, "rid-1")

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "inside handler" {
			found = true
			assert.Equal(t, "rid-1", entry["request_id"])
		}
	}
	assert.True(t, found)
}

func TestDefaultHeadersAndCORS(t *testing.T) {
	s, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Headers = map[string]string{"X-Powered-By": "nuxum"}
		cfg.CORS = config.CORSConfig{Enabled: true, Origins: []string{"https://example.com"}}
	})
	s.Add(http.MethodGet, testUsersPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(s, http.MethodGet, testUsersPath, nil, echo.HeaderOrigin, "https://example.com")
	assert.Equal(t, "nuxum", rec.Header().Get("X-Powered-By"))
	assert.Equal(t, "https://example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = serve(s, http.MethodGet, "/missing", nil)
	assert.Equal(t, "nuxum", rec.Header().Get("X-Powered-By"))
}

func TestCORSDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Add(http.MethodGet, testUsersPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(s, http.MethodGet, testUsersPath, nil, echo.HeaderOrigin, "https://example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, func(cfg *config.Config) { cfg.Server.BodyLimit = "1K" })
	s.Add(http.MethodPost, testUsersPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	body := `{"name":"` + strings.Repeat("x", 2048) + `"}`
	rec := serve(s, http.MethodPost, testUsersPath, strings.NewReader(body), echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPanicRecovered(t *testing.T) {
	s, buf := newTestServer(t, nil)
	s.Add(http.MethodGet, "/panic", func(echo.Context) error { panic("boom") })

	rec := serve(s, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, rec))
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestEchoValidatorInstalled(t *testing.T) {
	type createUser struct {
		Name string `json:"name" validate:"required"`
	}

	s, _ := newTestServer(t, nil)
	s.Add(http.MethodPost, testUsersPath, func(c echo.Context) error {
		var req createUser
		if err := c.Bind(&req); err != nil {
			return err
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, req)
	})

	rec := serve(s, http.MethodPost, testUsersPath, strings.NewReader(`{}`), echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"validation failed: name is required","errors":[{"field":"name","message":"name is required"}]}`, rec.Body.String())

	rec = serve(s, http.MethodPost, testUsersPath, strings.NewReader(`{"name":"ada"}`), echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStartAndShutdown(t *testing.T) {
	s, buf := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Host = "127.0.0.1"
		cfg.Server.Path.Health = "/health"
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s.Echo().Listener = ln

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test probe
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
	assert.Contains(t, buf.String(), "listening")
}

func TestAddress(t *testing.T) {
	s, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Host = "localhost"
		cfg.Server.Port = 8081
	})
	assert.Equal(t, "localhost:8081", s.Address())
}

func TestUseAppliesToRoutesAddedEarlier(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.Add(http.MethodGet, "/early", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	s.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Global", "yes")
			return next(c)
		}
	})

	rec := serve(s, http.MethodGet, "/early", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Global"))
}
