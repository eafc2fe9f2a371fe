package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey struct{}

// echoKey is where Middleware stores the request logger in the echo context
const echoKey = "logger"

// FromContext returns the logger carried by ctx, or the global logger
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return GetLogger()
}

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromEcho returns the request logger, then the logger of the request context, then the global one
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoKey).(*zap.Logger); ok {
		return l
	}
	return FromContext(c.Request().Context())
}
