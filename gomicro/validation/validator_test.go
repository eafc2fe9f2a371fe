package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
)

type sample struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Cost  *float64 `json:"cost" validate:"omitempty,gte=0"`
	Kind  string   `json:"kind" validate:"omitempty,oneof=a b"`
	Email string   `json:"email" validate:"omitempty,email"`
	Code  string   `json:"code" validate:"omitempty,maxbytes=4"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	cost := -1.0
	err := New().Validate(&sample{Name: "toolong", Cost: &cost, Kind: "c", Email: "nope"})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 5 characters", verr.Fields["name"])
	assert.Equal(t, "must be greater than or equal to 0", verr.Fields["cost"])
	assert.Equal(t, "must be one of: a b", verr.Fields["kind"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
}

func TestMaxBytesCountsEncodedLength(t *testing.T) {
	assert.NoError(t, New().Validate(&sample{Name: "ok", Code: "abcd"}))
	assert.NoError(t, New().Validate(&sample{Name: "ok", Code: "éé"}))

	// three runes, six bytes
	err := New().Validate(&sample{Name: "ok", Code: "ééé"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 4 bytes", verr.Fields["code"])
}

func TestValidateAcceptsValid(t *testing.T) {
	assert.NoError(t, New().Validate(&sample{Name: "ok"}))
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = New()

	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"name":"abc"}`, true},
		{"missing name", `{}`, false},
		{"malformed", `{"name":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c := e.NewContext(req, httptest.NewRecorder())

			var s sample
			err := BindAndValidate(c, &s)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInvalid)
		})
	}
}
