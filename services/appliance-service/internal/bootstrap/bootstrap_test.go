package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/homeorganizer/gomicro/app"
	gclient "github.com/suteetoe/homeorganizer/gomicro/client"
	"github.com/suteetoe/homeorganizer/gomicro/config"
	"github.com/suteetoe/homeorganizer/gomicro/database/dbtest"
	"github.com/suteetoe/homeorganizer/gomicro/events"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/seed"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/client"
	"go.uber.org/zap/zaptest"
)

type testApp struct {
	rt    *app.Runtime
	e     *echo.Echo
	token string
	owner uuid.UUID
}

func newTestApp(t *testing.T, publisher events.Publisher) *testApp {
	t.Helper()

	conf := &config.Config{
		ServiceName: ServiceName,
		JWT:         config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1},
		Metrics:     config.MetricsConfig{Prefix: "appliance_service"},
		Broker:      config.BrokerConfig{Exchange: "appliance-events", PublishTimeout: time.Second},
	}
	rt := app.NewRuntime(conf, zaptest.NewLogger(t), dbtest.New(t, model.Models()...))
	if publisher != nil {
		rt.Emitter = events.NewEmitter(publisher, events.EmitterConfig{
			Exchange: conf.Broker.Exchange,
			Timeout:  conf.Broker.PublishTimeout,
			Enabled:  true,
		})
	}

	owner := uuid.New()
	token, err := rt.JWT.GenerateToken("owner@example.com", owner, "Owner")
	require.NoError(t, err)

	return &testApp{rt: rt, e: app.NewServer(Service(), rt), token: token, owner: owner}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(buf)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestApplianceLifecycle(t *testing.T) {
	a := newTestApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/appliances", map[string]any{"name": "X"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.ApplianceDto](t, rec)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "X", created.Name)
	assert.Equal(t, a.owner, created.UserID)

	rec = a.do(t, http.MethodGet, "/api/appliances/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[api.ApplianceDetailDto](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.ApplianceType, got.ApplianceType)

	rec = a.do(t, http.MethodDelete, "/api/appliances/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/appliances/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/appliances/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManualUploadSucceedsWhenBrokerFails(t *testing.T) {
	var attempts int
	failing := events.PublisherFunc(func(context.Context, string, string, []byte) error {
		attempts++
		return errors.New("broker unreachable")
	})
	a := newTestApp(t, failing)

	rec := a.do(t, http.MethodPost, "/api/appliances", map[string]any{"name": "Bosch Dishwasher", "appliance_type": "Dishwasher"})
	require.Equal(t, http.StatusCreated, rec.Code)
	appliance := decode[api.ApplianceDto](t, rec)

	rec = a.do(t, http.MethodPost, "/api/manuals", map[string]any{
		"appliance_id": appliance.ID,
		"title":        "Bosch SHPM65W55N Installation Guide",
		"file_url":     "https://example.com/bosch-dishwasher-install.pdf",
		"file_type":    "PDF",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	manual := decode[api.ManualDto](t, rec)
	assert.Equal(t, appliance.ID, manual.ApplianceID)
	assert.Equal(t, "Bosch SHPM65W55N Installation Guide", manual.Title)
	assert.Equal(t, "PDF", manual.FileType)

	var stored model.Manual
	require.NoError(t, a.rt.DB.First(&stored, "id = ?", manual.ID).Error)
	assert.Equal(t, manual.Title, stored.Title)
	assert.Equal(t, 2, attempts)
}

func TestPanickingPublisherDoesNotFailRequest(t *testing.T) {
	a := newTestApp(t, events.PublisherFunc(func(context.Context, string, string, []byte) error {
		panic("publisher exploded")
	}))

	rec := a.do(t, http.MethodPost, "/api/appliances", map[string]any{"name": "Range"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRequestsRequireToken(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/appliances", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	a := newTestApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/appliances", map[string]any{"appliance_type": "Toaster", "purchase_price": -5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](t, rec)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, "is required", fields["name"])
	assert.Contains(t, fields, "appliance_type")
	assert.Contains(t, fields, "purchase_price")

	rec = a.do(t, http.MethodPost, "/api/service-records", map[string]any{"appliance_id": uuid.New()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "service_date")

	rec = a.do(t, http.MethodGet, "/api/manuals?appliance_id=not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMissingApplianceIs404(t *testing.T) {
	a := newTestApp(t, nil)

	rec := a.do(t, http.MethodPut, "/api/appliances/"+uuid.NewString(), map[string]any{"name": "Y"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Appliance not found"}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/appliances/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Appliance not found"}`, rec.Body.String())
}

func TestDeleteRoomInUseIs409(t *testing.T) {
	a := newTestApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/rooms", map[string]any{"name": "Kitchen"})
	require.Equal(t, http.StatusCreated, rec.Code)
	room := decode[api.RoomDto](t, rec)

	rec = a.do(t, http.MethodPost, "/api/appliances", map[string]any{"name": "Fridge", "room_id": room.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/rooms/"+room.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"room \"Kitchen\" still holds 1 appliance(s)"}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/rooms/"+room.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t, nil)

	rec := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	a.do(t, http.MethodPost, "/api/appliances", map[string]any{"name": "Range"})

	rec = a.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `appliance_service_operations_total{entity="appliance",operation="create"} 1`)
	assert.Contains(t, rec.Body.String(), `outcome="disabled"`)
}

func TestTypedClientReplacesCacheAfterWrites(t *testing.T) {
	a := newTestApp(t, nil)
	srv := httptest.NewServer(a.e)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, a.token, nil)
	ctx := context.Background()

	updates, stop := c.Appliances.Cache().Subscribe()
	defer stop()

	fridge, err := c.Appliances.Create(ctx, api.ApplianceRequest{Name: "Fridge", ApplianceType: api.ApplianceTypeRefrigerator})
	require.NoError(t, err)
	assert.Equal(t, withoutTimes([]api.ApplianceDto{fridge}), withoutTimes(<-updates))

	_, err = c.Manuals.Create(ctx, api.ManualRequest{ApplianceID: fridge.ID, Title: "User Manual"})
	require.NoError(t, err)
	manuals, err := c.ManualsFor(ctx, fridge.ID)
	require.NoError(t, err)
	require.Len(t, manuals, 1)

	detail, err := c.ApplianceDetail(ctx, fridge.ID)
	require.NoError(t, err)
	require.Len(t, detail.Manuals, 1)
	assert.Equal(t, "User Manual", detail.Manuals[0].Title)

	require.NoError(t, c.Appliances.Delete(ctx, fridge.ID.String()))
	assert.Empty(t, <-updates)

	_, err = c.Appliances.Get(ctx, fridge.ID.String())
	assert.ErrorIs(t, err, gclient.ErrNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, Service().Seed(ctx, a.rt))
	require.NoError(t, Service().Seed(ctx, a.rt))

	var count int64
	require.NoError(t, a.rt.DB.Model(&model.Appliance{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	var records []model.ServiceRecord
	require.NoError(t, a.rt.DB.Where("appliance_id IN (?)",
		a.rt.DB.Model(&model.Appliance{}).Select("id").Where("user_id = ?", seed.SampleUserID)).
		Find(&records).Error)
	assert.Len(t, records, 1)
}

// withoutTimes zeroes timestamps so values decoded from different responses compare equal
func withoutTimes(in []api.ApplianceDto) []api.ApplianceDto {
	out := make([]api.ApplianceDto, len(in))
	for i, a := range in {
		a.CreatedAt, a.UpdatedAt = time.Time{}, time.Time{}
		out[i] = a
	}
	return out
}
