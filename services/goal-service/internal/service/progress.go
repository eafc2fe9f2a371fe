package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"gorm.io/gorm"
)

type RecordProgressCommand struct {
	UserID uuid.UUID
	api.ProgressRequest
}

type UpdateProgressCommand struct {
	Ref
	api.ProgressRequest
}

type ListProgressQuery struct {
	UserID uuid.UUID
	GoalID *uuid.UUID
}

// ListProgress returns progress entries newest first
func (s *Service) ListProgress(ctx context.Context, q ListProgressQuery) ([]api.ProgressDto, error) {
	defer s.track("progress", "list")()

	query := s.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.GoalID != nil {
		query = query.Where("goal_id = ?", *q.GoalID)
	}

	var entries []model.Progress
	if err := query.Order("progress_date DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	out := make([]api.ProgressDto, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetProgress(ctx context.Context, ref Ref) (api.ProgressDto, error) {
	defer s.track("progress", "get")()

	p, err := findProgress(s.db.WithContext(ctx), ref.UserID, ref.ID)
	if err != nil {
		return api.ProgressDto{}, err
	}
	return p.ToDto(), nil
}

func (s *Service) RecordProgress(ctx context.Context, cmd RecordProgressCommand) (api.ProgressDto, error) {
	defer s.track("progress", "create")()

	p := model.Progress{ID: uuid.New(), UserID: cmd.UserID}
	s.applyProgressRequest(&p, cmd.ProgressRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGoal(tx, cmd.UserID, p.GoalID); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return api.ProgressDto{}, fmt.Errorf("record progress: %w", err)
	}
	return p.ToDto(), nil
}

func (s *Service) UpdateProgress(ctx context.Context, cmd UpdateProgressCommand) (api.ProgressDto, error) {
	defer s.track("progress", "update")()

	var p *model.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if p, err = findProgress(tx, cmd.UserID, cmd.ID); err != nil {
			return err
		}
		if p.GoalID != cmd.GoalID {
			if _, err := findGoal(tx, cmd.UserID, cmd.GoalID); err != nil {
				return err
			}
		}
		s.applyProgressRequest(p, cmd.ProgressRequest)
		return tx.Save(p).Error
	})
	if err != nil {
		return api.ProgressDto{}, fmt.Errorf("update progress: %w", err)
	}
	return p.ToDto(), nil
}

func (s *Service) DeleteProgress(ctx context.Context, ref Ref) error {
	defer s.track("progress", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProgress(tx, ref.UserID, ref.ID)
		if err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

func (s *Service) applyProgressRequest(p *model.Progress, req api.ProgressRequest) {
	p.GoalID = req.GoalID
	if req.ProgressDate != nil {
		p.ProgressDate = *req.ProgressDate
	} else if p.ProgressDate.IsZero() {
		p.ProgressDate = s.now()
	}
	p.Notes = req.Notes
	p.CompletionPercentage = req.CompletionPercentage
	p.IsSignificant = req.IsSignificant
}
