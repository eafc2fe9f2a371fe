package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"gorm.io/gorm"
)

type UploadManualCommand struct {
	UserID uuid.UUID
	api.ManualRequest
}

type UpdateManualCommand struct {
	Ref
	api.ManualRequest
}

type ListManualsQuery struct {
	UserID      uuid.UUID
	ApplianceID *uuid.UUID
}

func (s *Service) ListManuals(ctx context.Context, q ListManualsQuery) ([]api.ManualDto, error) {
	defer s.track("manual", "list")()

	db := s.db.WithContext(ctx)
	query := db.Where("appliance_id IN (?)", ownedAppliances(db, q.UserID))
	if q.ApplianceID != nil {
		query = query.Where("appliance_id = ?", *q.ApplianceID)
	}

	var manuals []model.Manual
	if err := query.Order("title").Find(&manuals).Error; err != nil {
		return nil, fmt.Errorf("list manuals: %w", err)
	}
	out := make([]api.ManualDto, 0, len(manuals))
	for i := range manuals {
		out = append(out, manuals[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetManual(ctx context.Context, ref Ref) (api.ManualDto, error) {
	defer s.track("manual", "get")()

	var m model.Manual
	if err := findChild(s.db.WithContext(ctx), &m, "manual", ref.UserID, ref.ID); err != nil {
		return api.ManualDto{}, err
	}
	return m.ToDto(), nil
}

// UploadManual stores the manual and announces it on manual.uploaded.
// A failed announcement does not affect the result.
func (s *Service) UploadManual(ctx context.Context, cmd UploadManualCommand) (api.ManualDto, error) {
	defer s.track("manual", "create")()

	m := model.Manual{ID: uuid.New()}
	applyManualRequest(&m, cmd.ManualRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAppliance(tx, cmd.UserID, m.ApplianceID); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return api.ManualDto{}, fmt.Errorf("upload manual: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingManualUploaded, model.NewManualUploadedEvent(&m, cmd.UserID, s.now()))
	return m.ToDto(), nil
}

func (s *Service) UpdateManual(ctx context.Context, cmd UpdateManualCommand) (api.ManualDto, error) {
	defer s.track("manual", "update")()

	var m model.Manual
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findChild(tx, &m, "manual", cmd.UserID, cmd.ID); err != nil {
			return err
		}
		if m.ApplianceID != cmd.ApplianceID {
			if _, err := findAppliance(tx, cmd.UserID, cmd.ApplianceID); err != nil {
				return err
			}
		}
		applyManualRequest(&m, cmd.ManualRequest)
		return tx.Save(&m).Error
	})
	if err != nil {
		return api.ManualDto{}, fmt.Errorf("update manual: %w", err)
	}
	return m.ToDto(), nil
}

func (s *Service) DeleteManual(ctx context.Context, ref Ref) error {
	defer s.track("manual", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Manual
		if err := findChild(tx, &m, "manual", ref.UserID, ref.ID); err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return fmt.Errorf("delete manual: %w", err)
	}
	return nil
}

func applyManualRequest(m *model.Manual, req api.ManualRequest) {
	m.ApplianceID = req.ApplianceID
	m.Title = req.Title
	m.FileURL = req.FileURL
	m.FileType = req.FileType
}
