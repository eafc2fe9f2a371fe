package validation

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
)

// PathID parses the :name path parameter. A malformed id cannot name an
// existing entity, so it is reported as not found.
func PathID(c echo.Context, entity, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(entity, raw)
	}
	return id, nil
}

// QueryID parses an optional uuid query parameter. It returns nil when absent.
func QueryID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Invalid(name, "must be a valid id")
	}
	return &id, nil
}
