// Package client is the typed Go client of appliance-service. Each resource
// keeps a collection cache that is replaced wholesale after every write.
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/client"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"go.uber.org/zap"
)

// Client groups the appliance-service resources behind one authenticated connection
type Client struct {
	Rooms          *client.Resource[api.RoomDto]
	Appliances     *client.Resource[api.ApplianceDto]
	Warranties     *client.Resource[api.WarrantyDto]
	Manuals        *client.Resource[api.ManualDto]
	ServiceRecords *client.Resource[api.ServiceRecordDto]

	conn *client.Client
}

// New creates a client for the service at baseURL authenticating with token
func New(baseURL, token string, logger *zap.Logger) *Client {
	c := client.New(baseURL, logger).WithToken(token)
	return &Client{
		Rooms:          client.NewResource[api.RoomDto](c, "/api/rooms"),
		Appliances:     client.NewResource[api.ApplianceDto](c, "/api/appliances"),
		Warranties:     client.NewResource[api.WarrantyDto](c, "/api/warranties"),
		Manuals:        client.NewResource[api.ManualDto](c, "/api/manuals"),
		ServiceRecords: client.NewResource[api.ServiceRecordDto](c, "/api/service-records"),
		conn:           c,
	}
}

// ApplianceDetail fetches an appliance with its warranties, manuals and service history
func (c *Client) ApplianceDetail(ctx context.Context, id uuid.UUID) (api.ApplianceDetailDto, error) {
	var out api.ApplianceDetailDto
	err := c.conn.Do(ctx, http.MethodGet, "/api/appliances/"+url.PathEscape(id.String()), nil, &out)
	return out, err
}

// ManualsFor lists and caches the manuals of one appliance
func (c *Client) ManualsFor(ctx context.Context, applianceID uuid.UUID) ([]api.ManualDto, error) {
	return c.Manuals.List(ctx, url.Values{"appliance_id": {applianceID.String()}})
}

// WarrantiesFor lists and caches the warranties of one appliance
func (c *Client) WarrantiesFor(ctx context.Context, applianceID uuid.UUID) ([]api.WarrantyDto, error) {
	return c.Warranties.List(ctx, url.Values{"appliance_id": {applianceID.String()}})
}

// ServiceHistory lists and caches the service records of one appliance
func (c *Client) ServiceHistory(ctx context.Context, applianceID uuid.UUID) ([]api.ServiceRecordDto, error) {
	return c.ServiceRecords.List(ctx, url.Values{"appliance_id": {applianceID.String()}})
}
