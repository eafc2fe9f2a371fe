package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDKey       = "request_id"
	maxRequestIDLength = 128
)

// RequestIDMiddleware keeps the caller's X-Request-ID when it is usable and
// otherwise assigns a new one. The id is echoed on the response.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if !usableRequestID(id) {
				id = uuid.NewString()
				req.Header.Set(echo.HeaderXRequestID, id)
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.Set(requestIDKey, id)
			return next(c)
		}
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, or "" outside it
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// usableRequestID accepts short printable ASCII ids so they are safe to log and echo back
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
