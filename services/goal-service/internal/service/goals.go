package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateGoalCommand struct {
	UserID uuid.UUID
	api.GoalRequest
}

type UpdateGoalCommand struct {
	Ref
	api.GoalRequest
}

// ListGoalsQuery filters the goals of UserID; nil filters match everything
type ListGoalsQuery struct {
	UserID   uuid.UUID
	Status   *api.GoalStatus
	Category *api.GoalCategory
	IsShared *bool
}

// ListGoals returns goals by descending priority, then by target date
func (s *Service) ListGoals(ctx context.Context, q ListGoalsQuery) ([]api.GoalDto, error) {
	defer s.track("goal", "list")()

	query := s.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.Status != nil {
		query = query.Where("status = ?", string(*q.Status))
	}
	if q.Category != nil {
		query = query.Where("category = ?", string(*q.Category))
	}
	if q.IsShared != nil {
		query = query.Where("is_shared = ?", *q.IsShared)
	}

	var goals []model.Goal
	err := query.Preload("Milestones").
		Order("priority DESC").
		Order("target_date").
		Order("title").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]api.GoalDto, 0, len(goals))
	for i := range goals {
		out = append(out, goals[i].ToDto())
	}
	return out, nil
}

// GetGoal returns the goal with its milestones in sort order and progress newest first
func (s *Service) GetGoal(ctx context.Context, ref Ref) (api.GoalDetailDto, error) {
	defer s.track("goal", "get")()

	var g model.Goal
	err := s.db.WithContext(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Progresses", func(db *gorm.DB) *gorm.DB { return db.Order("progress_date DESC") }).
		Where("id = ? AND user_id = ?", ref.ID, ref.UserID).
		First(&g).Error
	if err != nil {
		return api.GoalDetailDto{}, notFoundOr(err, "goal", ref.ID)
	}
	return g.ToDetailDto(), nil
}

// CreateGoal stores the goal and announces it on goal.created.
// A failed announcement does not affect the result.
func (s *Service) CreateGoal(ctx context.Context, cmd CreateGoalCommand) (api.GoalDto, error) {
	defer s.track("goal", "create")()

	g := model.Goal{ID: uuid.New(), UserID: cmd.UserID}
	applyGoalRequest(&g, cmd.GoalRequest)
	if g.Status == string(api.GoalStatusCompleted) {
		g.MarkAsCompleted(s.now())
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&g).Error; err != nil {
		return api.GoalDto{}, fmt.Errorf("create goal: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingGoalCreated, model.NewGoalCreatedEvent(&g, s.now()))
	return g.ToDto(), nil
}

func (s *Service) UpdateGoal(ctx context.Context, cmd UpdateGoalCommand) (api.GoalDto, error) {
	defer s.track("goal", "update")()

	var g *model.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if g, err = findGoal(tx, cmd.UserID, cmd.ID); err != nil {
			return err
		}
		wasCompleted := g.Status == string(api.GoalStatusCompleted)
		applyGoalRequest(g, cmd.GoalRequest)
		switch {
		case g.Status == string(api.GoalStatusCompleted) && !wasCompleted:
			g.MarkAsCompleted(s.now())
		case g.Status != string(api.GoalStatusCompleted):
			g.CompletedDate = nil
		}
		if err := tx.Omit(clause.Associations).Save(g).Error; err != nil {
			return err
		}
		return loadMilestones(tx, g)
	})
	if err != nil {
		return api.GoalDto{}, fmt.Errorf("update goal: %w", err)
	}
	return g.ToDto(), nil
}

// CompleteGoal marks the goal Completed as of now and announces it on goal.completed
func (s *Service) CompleteGoal(ctx context.Context, ref Ref) (api.GoalDto, error) {
	defer s.track("goal", "complete")()

	var g *model.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if g, err = findGoal(tx, ref.UserID, ref.ID); err != nil {
			return err
		}
		g.MarkAsCompleted(s.now())
		if err := tx.Omit(clause.Associations).Save(g).Error; err != nil {
			return err
		}
		return loadMilestones(tx, g)
	})
	if err != nil {
		return api.GoalDto{}, fmt.Errorf("complete goal: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingGoalCompleted, model.NewGoalCompletedEvent(g, s.now()))
	return g.ToDto(), nil
}

// StartGoal moves the goal to InProgress
func (s *Service) StartGoal(ctx context.Context, ref Ref) (api.GoalDto, error) {
	defer s.track("goal", "start")()

	var g *model.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if g, err = findGoal(tx, ref.UserID, ref.ID); err != nil {
			return err
		}
		g.MarkAsInProgress()
		g.CompletedDate = nil
		if err := tx.Omit(clause.Associations).Save(g).Error; err != nil {
			return err
		}
		return loadMilestones(tx, g)
	})
	if err != nil {
		return api.GoalDto{}, fmt.Errorf("start goal: %w", err)
	}
	return g.ToDto(), nil
}

// DeleteGoal removes the goal together with its milestones and progress entries
func (s *Service) DeleteGoal(ctx context.Context, ref Ref) error {
	defer s.track("goal", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findGoal(tx, ref.UserID, ref.ID)
		if err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", g.ID).Delete(&model.Milestone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", g.ID).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func applyGoalRequest(g *model.Goal, req api.GoalRequest) {
	g.Title = req.Title
	g.Description = req.Description
	g.Category = string(req.Category)
	if g.Category == "" {
		g.Category = string(api.GoalCategoryOther)
	}
	g.Status = string(req.Status)
	if g.Status == "" {
		g.Status = string(api.GoalStatusNotStarted)
	}
	g.TargetDate = req.TargetDate
	g.Priority = req.Priority
	if g.Priority == 0 {
		g.Priority = api.DefaultPriority
	}
	g.IsShared = req.IsShared == nil || *req.IsShared
}
