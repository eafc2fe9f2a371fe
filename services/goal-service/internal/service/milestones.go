package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"gorm.io/gorm"
)

type CreateMilestoneCommand struct {
	UserID uuid.UUID
	api.MilestoneRequest
}

type UpdateMilestoneCommand struct {
	Ref
	api.MilestoneRequest
}

type ListMilestonesQuery struct {
	UserID uuid.UUID
	GoalID *uuid.UUID
}

func (s *Service) ListMilestones(ctx context.Context, q ListMilestonesQuery) ([]api.MilestoneDto, error) {
	defer s.track("milestone", "list")()

	query := s.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.GoalID != nil {
		query = query.Where("goal_id = ?", *q.GoalID)
	}

	var milestones []model.Milestone
	if err := query.Order("goal_id").Order("sort_order").Find(&milestones).Error; err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	out := make([]api.MilestoneDto, 0, len(milestones))
	for i := range milestones {
		out = append(out, milestones[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetMilestone(ctx context.Context, ref Ref) (api.MilestoneDto, error) {
	defer s.track("milestone", "get")()

	m, err := findMilestone(s.db.WithContext(ctx), ref.UserID, ref.ID)
	if err != nil {
		return api.MilestoneDto{}, err
	}
	return m.ToDto(), nil
}

func (s *Service) CreateMilestone(ctx context.Context, cmd CreateMilestoneCommand) (api.MilestoneDto, error) {
	defer s.track("milestone", "create")()

	m := model.Milestone{ID: uuid.New(), UserID: cmd.UserID}
	s.applyMilestoneRequest(&m, cmd.MilestoneRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGoal(tx, cmd.UserID, m.GoalID); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return api.MilestoneDto{}, fmt.Errorf("create milestone: %w", err)
	}
	return m.ToDto(), nil
}

func (s *Service) UpdateMilestone(ctx context.Context, cmd UpdateMilestoneCommand) (api.MilestoneDto, error) {
	defer s.track("milestone", "update")()

	var m *model.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = findMilestone(tx, cmd.UserID, cmd.ID); err != nil {
			return err
		}
		if m.GoalID != cmd.GoalID {
			if _, err := findGoal(tx, cmd.UserID, cmd.GoalID); err != nil {
				return err
			}
		}
		s.applyMilestoneRequest(m, cmd.MilestoneRequest)
		return tx.Save(m).Error
	})
	if err != nil {
		return api.MilestoneDto{}, fmt.Errorf("update milestone: %w", err)
	}
	return m.ToDto(), nil
}

// CompleteMilestone marks the milestone done. Completing it again keeps the first completion date.
func (s *Service) CompleteMilestone(ctx context.Context, ref Ref) (api.MilestoneDto, error) {
	defer s.track("milestone", "complete")()

	var m *model.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = findMilestone(tx, ref.UserID, ref.ID); err != nil {
			return err
		}
		m.MarkAsCompleted(s.now())
		return tx.Save(m).Error
	})
	if err != nil {
		return api.MilestoneDto{}, fmt.Errorf("complete milestone: %w", err)
	}
	return m.ToDto(), nil
}

func (s *Service) DeleteMilestone(ctx context.Context, ref Ref) error {
	defer s.track("milestone", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMilestone(tx, ref.UserID, ref.ID)
		if err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
	if err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	return nil
}

func (s *Service) applyMilestoneRequest(m *model.Milestone, req api.MilestoneRequest) {
	m.GoalID = req.GoalID
	m.Title = req.Title
	m.Description = req.Description
	m.TargetDate = req.TargetDate
	m.SortOrder = req.SortOrder
	if req.IsCompleted {
		m.MarkAsCompleted(s.now())
	} else {
		m.IsCompleted = false
		m.CompletedDate = nil
	}
}
