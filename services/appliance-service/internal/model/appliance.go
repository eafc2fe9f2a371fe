package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
)

// Room groups appliances by location. A room still holding appliances cannot be deleted.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_user_name"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_rooms_user_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appliance is the aggregate root owning warranties, manuals and service records
type Appliance struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomID        *uuid.UUID `gorm:"type:uuid;index"`
	Room          *Room      `gorm:"constraint:OnDelete:RESTRICT"`
	Name          string     `gorm:"type:varchar(200);not null"`
	ApplianceType string     `gorm:"type:varchar(50);not null"`
	Brand         string     `gorm:"type:varchar(100)"`
	ModelNumber   string     `gorm:"type:varchar(100)"`
	SerialNumber  string     `gorm:"type:varchar(100)"`
	PurchaseDate  *time.Time
	PurchasePrice *float64 `gorm:"type:decimal(18,2)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Warranties     []Warranty      `gorm:"constraint:OnDelete:CASCADE"`
	Manuals        []Manual        `gorm:"constraint:OnDelete:CASCADE"`
	ServiceRecords []ServiceRecord `gorm:"constraint:OnDelete:CASCADE"`
}

// Warranty belongs to an appliance and is removed with it
type Warranty struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApplianceID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Provider        string    `gorm:"type:varchar(200)"`
	StartDate       *time.Time
	EndDate         *time.Time
	CoverageDetails string `gorm:"type:varchar(2000)"`
	DocumentURL     string `gorm:"type:varchar(500)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Manual belongs to an appliance and is removed with it
type Manual struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApplianceID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"type:varchar(200);not null"`
	FileURL     string    `gorm:"type:varchar(500)"`
	FileType    string    `gorm:"type:varchar(50)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceRecord belongs to an appliance. Deleting the warranty it was claimed
// under keeps the record and clears WarrantyID.
type ServiceRecord struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ApplianceID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	WarrantyID      *uuid.UUID `gorm:"type:uuid;index"`
	Warranty        *Warranty  `gorm:"constraint:OnDelete:SET NULL"`
	ServiceDate     time.Time  `gorm:"not null"`
	ServiceProvider string     `gorm:"type:varchar(200)"`
	Description     string     `gorm:"type:varchar(2000)"`
	Cost            *float64   `gorm:"type:decimal(18,2)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Models lists every table of the service in migration order
func Models() []interface{} {
	return []interface{}{&Room{}, &Appliance{}, &Warranty{}, &Manual{}, &ServiceRecord{}}
}

func (r *Room) ToDto() api.RoomDto {
	return api.RoomDto{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (a *Appliance) ToDto() api.ApplianceDto {
	return api.ApplianceDto{
		ID:            a.ID,
		UserID:        a.UserID,
		RoomID:        a.RoomID,
		Name:          a.Name,
		ApplianceType: api.ApplianceType(a.ApplianceType),
		Brand:         a.Brand,
		ModelNumber:   a.ModelNumber,
		SerialNumber:  a.SerialNumber,
		PurchaseDate:  a.PurchaseDate,
		PurchasePrice: a.PurchasePrice,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToDetailDto includes the child collections that were preloaded
func (a *Appliance) ToDetailDto() api.ApplianceDetailDto {
	out := api.ApplianceDetailDto{
		ApplianceDto:   a.ToDto(),
		Warranties:     make([]api.WarrantyDto, 0, len(a.Warranties)),
		Manuals:        make([]api.ManualDto, 0, len(a.Manuals)),
		ServiceRecords: make([]api.ServiceRecordDto, 0, len(a.ServiceRecords)),
	}
	for i := range a.Warranties {
		out.Warranties = append(out.Warranties, a.Warranties[i].ToDto())
	}
	for i := range a.Manuals {
		out.Manuals = append(out.Manuals, a.Manuals[i].ToDto())
	}
	for i := range a.ServiceRecords {
		out.ServiceRecords = append(out.ServiceRecords, a.ServiceRecords[i].ToDto())
	}
	return out
}

func (w *Warranty) ToDto() api.WarrantyDto {
	return api.WarrantyDto{
		ID:              w.ID,
		ApplianceID:     w.ApplianceID,
		Provider:        w.Provider,
		StartDate:       w.StartDate,
		EndDate:         w.EndDate,
		CoverageDetails: w.CoverageDetails,
		DocumentURL:     w.DocumentURL,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (m *Manual) ToDto() api.ManualDto {
	return api.ManualDto{
		ID:          m.ID,
		ApplianceID: m.ApplianceID,
		Title:       m.Title,
		FileURL:     m.FileURL,
		FileType:    m.FileType,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (s *ServiceRecord) ToDto() api.ServiceRecordDto {
	return api.ServiceRecordDto{
		ID:              s.ID,
		ApplianceID:     s.ApplianceID,
		WarrantyID:      s.WarrantyID,
		ServiceDate:     s.ServiceDate,
		ServiceProvider: s.ServiceProvider,
		Description:     s.Description,
		Cost:            s.Cost,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
