package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
)

func newAuthServer(util *jwtutil.JWTUtil) *echo.Echo {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/me", func(c echo.Context) error {
		userID, ok := UserIDFromContext(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, userID.String())
	}, JWTAuthMiddleware(util))
	return e
}

func TestJWTAuthMiddleware(t *testing.T) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "k", ExpirationHours: 1})
	e := newAuthServer(util)
	userID := uuid.New()
	token, err := util.GenerateToken("a@example.com", userID, "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequestIDIsPreserved(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "given-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "given-id", rec.Header().Get(echo.HeaderXRequestID))
}
