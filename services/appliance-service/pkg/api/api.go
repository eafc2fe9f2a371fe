// Package api holds the JSON contract of appliance-service, shared by the
// HTTP handlers and the typed client.
package api

import (
	"time"

	"github.com/google/uuid"
)

// ApplianceType classifies an appliance
type ApplianceType string

const (
	ApplianceTypeRefrigerator ApplianceType = "Refrigerator"
	ApplianceTypeOven         ApplianceType = "Oven"
	ApplianceTypeDishwasher   ApplianceType = "Dishwasher"
	ApplianceTypeWasherDryer  ApplianceType = "WasherDryer"
	ApplianceTypeMicrowave    ApplianceType = "Microwave"
	ApplianceTypeHVAC         ApplianceType = "HVAC"
	ApplianceTypeWaterHeater  ApplianceType = "WaterHeater"
	ApplianceTypeOther        ApplianceType = "Other"
)

// RoomDto is a room appliances are located in
type RoomDto struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomRequest creates or renames a room
type RoomRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ApplianceDto is an appliance without its child collections
type ApplianceDto struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	RoomID        *uuid.UUID    `json:"room_id,omitempty"`
	Name          string        `json:"name"`
	ApplianceType ApplianceType `json:"appliance_type"`
	Brand         string        `json:"brand"`
	ModelNumber   string        `json:"model_number"`
	SerialNumber  string        `json:"serial_number"`
	PurchaseDate  *time.Time    `json:"purchase_date,omitempty"`
	PurchasePrice *float64      `json:"purchase_price,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ApplianceDetailDto is an appliance with its warranties, manuals and service history
type ApplianceDetailDto struct {
	ApplianceDto
	Warranties     []WarrantyDto      `json:"warranties"`
	Manuals        []ManualDto        `json:"manuals"`
	ServiceRecords []ServiceRecordDto `json:"service_records"`
}

// ApplianceRequest creates or replaces an appliance. An empty type means Other.
type ApplianceRequest struct {
	RoomID        *uuid.UUID    `json:"room_id"`
	Name          string        `json:"name" validate:"required,max=200"`
	ApplianceType ApplianceType `json:"appliance_type" validate:"omitempty,oneof=Refrigerator Oven Dishwasher WasherDryer Microwave HVAC WaterHeater Other"`
	Brand         string        `json:"brand" validate:"max=100"`
	ModelNumber   string        `json:"model_number" validate:"max=100"`
	SerialNumber  string        `json:"serial_number" validate:"max=100"`
	PurchaseDate  *time.Time    `json:"purchase_date"`
	PurchasePrice *float64      `json:"purchase_price" validate:"omitempty,gte=0"`
}

// WarrantyDto is a warranty attached to an appliance
type WarrantyDto struct {
	ID              uuid.UUID  `json:"id"`
	ApplianceID     uuid.UUID  `json:"appliance_id"`
	Provider        string     `json:"provider"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	CoverageDetails string     `json:"coverage_details"`
	DocumentURL     string     `json:"document_url"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// WarrantyRequest creates or replaces a warranty
type WarrantyRequest struct {
	ApplianceID     uuid.UUID  `json:"appliance_id" validate:"required"`
	Provider        string     `json:"provider" validate:"max=200"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CoverageDetails string     `json:"coverage_details" validate:"max=2000"`
	DocumentURL     string     `json:"document_url" validate:"max=500"`
}

// ManualDto is a manual attached to an appliance
type ManualDto struct {
	ID          uuid.UUID `json:"id"`
	ApplianceID uuid.UUID `json:"appliance_id"`
	Title       string    `json:"title"`
	FileURL     string    `json:"file_url"`
	FileType    string    `json:"file_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ManualRequest uploads or replaces a manual
type ManualRequest struct {
	ApplianceID uuid.UUID `json:"appliance_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	FileURL     string    `json:"file_url" validate:"max=500"`
	FileType    string    `json:"file_type" validate:"max=50"`
}

// ServiceRecordDto is a repair or maintenance visit
type ServiceRecordDto struct {
	ID              uuid.UUID  `json:"id"`
	ApplianceID     uuid.UUID  `json:"appliance_id"`
	WarrantyID      *uuid.UUID `json:"warranty_id,omitempty"`
	ServiceDate     time.Time  `json:"service_date"`
	ServiceProvider string     `json:"service_provider"`
	Description     string     `json:"description"`
	Cost            *float64   `json:"cost,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ServiceRecordRequest creates or replaces a service record.
// WarrantyID must name a warranty of the same appliance.
type ServiceRecordRequest struct {
	ApplianceID     uuid.UUID  `json:"appliance_id" validate:"required"`
	WarrantyID      *uuid.UUID `json:"warranty_id"`
	ServiceDate     *time.Time `json:"service_date" validate:"required"`
	ServiceProvider string     `json:"service_provider" validate:"max=200"`
	Description     string     `json:"description" validate:"max=2000"`
	Cost            *float64   `json:"cost" validate:"omitempty,gte=0"`
}
