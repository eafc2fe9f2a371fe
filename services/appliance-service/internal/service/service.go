// Package service implements the appliance-service commands and queries.
// Every method performs its store work in one call or one transaction, maps
// the result to a DTO and, for creates, emits a best-effort domain event
// once the write has committed.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/database"
	"github.com/suteetoe/homeorganizer/gomicro/events"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"gorm.io/gorm"
)

// Ref addresses one entity owned by UserID
type Ref struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

// Service is the appliance-service application layer
type Service struct {
	db      *gorm.DB
	emitter *events.Emitter
	metrics *metrics.OperationMetrics
	now     func() time.Time
}

// New creates a Service. emitter and m may be nil.
func New(db *gorm.DB, emitter *events.Emitter, m *metrics.OperationMetrics) *Service {
	return &Service{
		db:      db,
		emitter: emitter,
		metrics: m,
		now:     database.Now,
	}
}

func (s *Service) track(entity, operation string) func() {
	start := time.Now()
	done := s.metrics.TrackDB(entity + "_" + operation)
	return func() {
		done(start)
		s.metrics.Record(entity, operation)
	}
}

// ownedAppliances selects the ids of the appliances owned by userID
func ownedAppliances(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&model.Appliance{}).
		Select("id").
		Where("user_id = ?", userID)
}

func findAppliance(db *gorm.DB, userID, id uuid.UUID) (*model.Appliance, error) {
	var a model.Appliance
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if err != nil {
		return nil, notFoundOr(err, "appliance", id)
	}
	return &a, nil
}

func findRoom(db *gorm.DB, userID, id uuid.UUID) (*model.Room, error) {
	var r model.Room
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&r).Error
	if err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	return &r, nil
}

// findChild loads a warranty, manual or service record whose appliance belongs to userID
func findChild(db *gorm.DB, dest interface{}, entity string, userID, id uuid.UUID) error {
	err := db.Where("id = ? AND appliance_id IN (?)", id, ownedAppliances(db, userID)).First(dest).Error
	if err != nil {
		return notFoundOr(err, entity, id)
	}
	return nil
}

func notFoundOr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("find %s %s: %w", entity, id, err)
}
