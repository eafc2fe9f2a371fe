package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"gorm.io/gorm"
)

type CreateWarrantyCommand struct {
	UserID uuid.UUID
	api.WarrantyRequest
}

type UpdateWarrantyCommand struct {
	Ref
	api.WarrantyRequest
}

type ListWarrantiesQuery struct {
	UserID      uuid.UUID
	ApplianceID *uuid.UUID
}

func (s *Service) ListWarranties(ctx context.Context, q ListWarrantiesQuery) ([]api.WarrantyDto, error) {
	defer s.track("warranty", "list")()

	db := s.db.WithContext(ctx)
	query := db.Where("appliance_id IN (?)", ownedAppliances(db, q.UserID))
	if q.ApplianceID != nil {
		query = query.Where("appliance_id = ?", *q.ApplianceID)
	}

	var warranties []model.Warranty
	if err := query.Order("created_at").Find(&warranties).Error; err != nil {
		return nil, fmt.Errorf("list warranties: %w", err)
	}
	out := make([]api.WarrantyDto, 0, len(warranties))
	for i := range warranties {
		out = append(out, warranties[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetWarranty(ctx context.Context, ref Ref) (api.WarrantyDto, error) {
	defer s.track("warranty", "get")()

	var w model.Warranty
	if err := findChild(s.db.WithContext(ctx), &w, "warranty", ref.UserID, ref.ID); err != nil {
		return api.WarrantyDto{}, err
	}
	return w.ToDto(), nil
}

func (s *Service) CreateWarranty(ctx context.Context, cmd CreateWarrantyCommand) (api.WarrantyDto, error) {
	defer s.track("warranty", "create")()

	if err := checkWarrantyPeriod(cmd.WarrantyRequest); err != nil {
		return api.WarrantyDto{}, err
	}

	w := model.Warranty{ID: uuid.New()}
	applyWarrantyRequest(&w, cmd.WarrantyRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAppliance(tx, cmd.UserID, w.ApplianceID); err != nil {
			return err
		}
		return tx.Create(&w).Error
	})
	if err != nil {
		return api.WarrantyDto{}, fmt.Errorf("create warranty: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingWarrantyAdded, model.NewWarrantyAddedEvent(&w, cmd.UserID, s.now()))
	return w.ToDto(), nil
}

func (s *Service) UpdateWarranty(ctx context.Context, cmd UpdateWarrantyCommand) (api.WarrantyDto, error) {
	defer s.track("warranty", "update")()

	if err := checkWarrantyPeriod(cmd.WarrantyRequest); err != nil {
		return api.WarrantyDto{}, err
	}

	var w model.Warranty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findChild(tx, &w, "warranty", cmd.UserID, cmd.ID); err != nil {
			return err
		}
		if w.ApplianceID != cmd.ApplianceID {
			if _, err := findAppliance(tx, cmd.UserID, cmd.ApplianceID); err != nil {
				return err
			}
			// records claimed under this warranty stay with the old appliance
			if err := tx.Model(&model.ServiceRecord{}).
				Where("warranty_id = ?", w.ID).
				Update("warranty_id", nil).Error; err != nil {
				return err
			}
		}
		applyWarrantyRequest(&w, cmd.WarrantyRequest)
		return tx.Save(&w).Error
	})
	if err != nil {
		return api.WarrantyDto{}, fmt.Errorf("update warranty: %w", err)
	}
	return w.ToDto(), nil
}

// DeleteWarranty removes the warranty and clears it from the service records claimed under it
func (s *Service) DeleteWarranty(ctx context.Context, ref Ref) error {
	defer s.track("warranty", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w model.Warranty
		if err := findChild(tx, &w, "warranty", ref.UserID, ref.ID); err != nil {
			return err
		}
		if err := tx.Model(&model.ServiceRecord{}).
			Where("warranty_id = ?", w.ID).
			Update("warranty_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&w).Error
	})
	if err != nil {
		return fmt.Errorf("delete warranty: %w", err)
	}
	return nil
}

func checkWarrantyPeriod(req api.WarrantyRequest) error {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return apperr.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

func applyWarrantyRequest(w *model.Warranty, req api.WarrantyRequest) {
	w.ApplianceID = req.ApplianceID
	w.Provider = req.Provider
	w.StartDate = req.StartDate
	w.EndDate = req.EndDate
	w.CoverageDetails = req.CoverageDetails
	w.DocumentURL = req.DocumentURL
}
