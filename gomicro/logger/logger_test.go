package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetLoggerNeverNil(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, GetLogger())
	assert.NotPanics(t, func() { GetLogger().Info("noop") })
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	global := zap.New(core)
	SetLogger(global)
	t.Cleanup(func() { SetLogger(nil) })

	assert.Same(t, global, FromContext(context.Background()))

	scoped := zap.NewNop()
	assert.Same(t, scoped, FromContext(WithContext(context.Background(), scoped)))
}

func TestMiddlewareLogsRequestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	e := echo.New()
	e.Use(Middleware())
	e.GET("/ping", func(c echo.Context) error {
		FromEcho(c).Info("inside handler")
		FromContext(c.Request().Context()).Info("inside service")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	entries := logs.All()
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	}
	assert.Equal(t, "HTTP Request", entries[2].Message)
	assert.EqualValues(t, http.StatusNoContent, entries[2].ContextMap()["status"])
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	e := echo.New()
	e.Use(Middleware())
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, logs.All(), 1)
	assert.EqualValues(t, http.StatusNotFound, logs.All()[0].ContextMap()["status"])
}

func TestFromEchoFallsBackToRequestContext(t *testing.T) {
	scoped := zap.NewNop()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithContext(req.Context(), scoped))
	c := echo.New().NewContext(req, httptest.NewRecorder())

	assert.Same(t, scoped, FromEcho(c))
}
