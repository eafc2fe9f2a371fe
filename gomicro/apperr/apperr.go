// Package apperr is the error taxonomy shared by every service: not found,
// conflict, invalid input, and everything else (internal).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
)

// publicError pairs a detailed error for logs with the short message shown to clients
type publicError struct {
	detail  string
	message string
	kind    error
}

func (e *publicError) Error() string { return e.detail }

func (e *publicError) Unwrap() error { return e.kind }

// NotFound reports a missing entity. Clients see "<Entity> not found".
func NotFound(entity string, id any) error {
	return &publicError{
		detail:  fmt.Sprintf("%s %v: %v", entity, id, ErrNotFound),
		message: capitalize(entity) + " not found",
		kind:    ErrNotFound,
	}
}

// Conflict reports a uniqueness or restrict-delete violation
func Conflict(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &publicError{
		detail:  msg + ": " + ErrConflict.Error(),
		message: msg,
		kind:    ErrConflict,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidationError carries per-field messages keyed by JSON field name
type ValidationError struct {
	Fields map[string]string
}

// Invalid builds a ValidationError for a single field
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Status maps an error onto an HTTP status code
func Status(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the JSON error payload for err. Internal errors never leak their text.
func Body(err error, fallback string) echo.Map {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.Map{"error": "Invalid request data", "fields": verr.Fields}
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return echo.Map{"error": fmt.Sprint(httpErr.Message)}
	}
	var pubErr *publicError
	if errors.As(err, &pubErr) {
		return echo.Map{"error": pubErr.message}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.Map{"error": "Not found"}
	case errors.Is(err, ErrConflict):
		return echo.Map{"error": "Conflict"}
	}
	return echo.Map{"error": fallback}
}

// Respond logs err with the request logger and writes it as a JSON error
// response. Client errors are logged at warn, everything else at error.
func Respond(c echo.Context, err error, fallback string) error {
	status := Status(err)
	log := logger.FromEcho(c)
	if status >= http.StatusInternalServerError {
		log.Error(fallback, zap.Error(err))
	} else {
		log.Warn(fallback, zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, Body(err, fallback))
}

// HTTPErrorHandler renders errors that escaped a handler as JSON
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := Status(err)
	var body echo.Map
	if status == http.StatusInternalServerError {
		body = echo.Map{"error": "Internal server error"}
	} else {
		body = Body(err, http.StatusText(status))
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}
