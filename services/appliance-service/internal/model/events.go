package model

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys on the appliance-events exchange
const (
	RoutingApplianceAdded     = "appliance.added"
	RoutingWarrantyAdded      = "warranty.added"
	RoutingManualUploaded     = "manual.uploaded"
	RoutingServiceRecordAdded = "servicerecord.added"
)

// ApplianceAddedEvent is published after an appliance is created
type ApplianceAddedEvent struct {
	EventType     string    `json:"event_type"`
	ApplianceID   uuid.UUID `json:"appliance_id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	ApplianceType string    `json:"appliance_type"`
	Timestamp     time.Time `json:"timestamp"`
}

// WarrantyAddedEvent is published after a warranty is attached
type WarrantyAddedEvent struct {
	EventType   string     `json:"event_type"`
	WarrantyID  uuid.UUID  `json:"warranty_id"`
	ApplianceID uuid.UUID  `json:"appliance_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Provider    string     `json:"provider"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// ManualUploadedEvent is published after a manual is stored
type ManualUploadedEvent struct {
	EventType   string    `json:"event_type"`
	ManualID    uuid.UUID `json:"manual_id"`
	ApplianceID uuid.UUID `json:"appliance_id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	FileType    string    `json:"file_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// ServiceRecordAddedEvent is published after a service visit is logged
type ServiceRecordAddedEvent struct {
	EventType       string    `json:"event_type"`
	ServiceRecordID uuid.UUID `json:"service_record_id"`
	ApplianceID     uuid.UUID `json:"appliance_id"`
	UserID          uuid.UUID `json:"user_id"`
	ServiceDate     time.Time `json:"service_date"`
	Cost            *float64  `json:"cost,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewApplianceAddedEvent(a *Appliance, at time.Time) ApplianceAddedEvent {
	return ApplianceAddedEvent{
		EventType:     "ApplianceAdded",
		ApplianceID:   a.ID,
		UserID:        a.UserID,
		Name:          a.Name,
		ApplianceType: a.ApplianceType,
		Timestamp:     at.UTC(),
	}
}

func NewWarrantyAddedEvent(w *Warranty, userID uuid.UUID, at time.Time) WarrantyAddedEvent {
	return WarrantyAddedEvent{
		EventType:   "WarrantyAdded",
		WarrantyID:  w.ID,
		ApplianceID: w.ApplianceID,
		UserID:      userID,
		Provider:    w.Provider,
		EndDate:     w.EndDate,
		Timestamp:   at.UTC(),
	}
}

func NewManualUploadedEvent(m *Manual, userID uuid.UUID, at time.Time) ManualUploadedEvent {
	return ManualUploadedEvent{
		EventType:   "ManualUploaded",
		ManualID:    m.ID,
		ApplianceID: m.ApplianceID,
		UserID:      userID,
		Title:       m.Title,
		FileType:    m.FileType,
		Timestamp:   at.UTC(),
	}
}

func NewServiceRecordAddedEvent(s *ServiceRecord, userID uuid.UUID, at time.Time) ServiceRecordAddedEvent {
	return ServiceRecordAddedEvent{
		EventType:       "ServiceRecordAdded",
		ServiceRecordID: s.ID,
		ApplianceID:     s.ApplianceID,
		UserID:          userID,
		ServiceDate:     s.ServiceDate,
		Cost:            s.Cost,
		Timestamp:       at.UTC(),
	}
}
