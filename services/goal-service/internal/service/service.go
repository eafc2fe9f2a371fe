// Package service implements the goal-service commands and queries.
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
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"gorm.io/gorm"
)

// Ref addresses one entity owned by UserID
type Ref struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

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

func findGoal(db *gorm.DB, userID, id uuid.UUID) (*model.Goal, error) {
	var g model.Goal
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	if err != nil {
		return nil, notFoundOr(err, "goal", id)
	}
	return &g, nil
}

func findMilestone(db *gorm.DB, userID, id uuid.UUID) (*model.Milestone, error) {
	var m model.Milestone
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if err != nil {
		return nil, notFoundOr(err, "milestone", id)
	}
	return &m, nil
}

func findProgress(db *gorm.DB, userID, id uuid.UUID) (*model.Progress, error) {
	var p model.Progress
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, notFoundOr(err, "progress", id)
	}
	return &p, nil
}

// loadMilestones fills g.Milestones so completion figures can be derived
func loadMilestones(db *gorm.DB, g *model.Goal) error {
	return db.Where("goal_id = ?", g.ID).Order("sort_order").Find(&g.Milestones).Error
}

func notFoundOr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("find %s %s: %w", entity, id, err)
}
