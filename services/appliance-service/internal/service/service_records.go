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

type CreateServiceRecordCommand struct {
	UserID uuid.UUID
	api.ServiceRecordRequest
}

type UpdateServiceRecordCommand struct {
	Ref
	api.ServiceRecordRequest
}

type ListServiceRecordsQuery struct {
	UserID      uuid.UUID
	ApplianceID *uuid.UUID
	WarrantyID  *uuid.UUID
}

func (s *Service) ListServiceRecords(ctx context.Context, q ListServiceRecordsQuery) ([]api.ServiceRecordDto, error) {
	defer s.track("service_record", "list")()

	db := s.db.WithContext(ctx)
	query := db.Where("appliance_id IN (?)", ownedAppliances(db, q.UserID))
	if q.ApplianceID != nil {
		query = query.Where("appliance_id = ?", *q.ApplianceID)
	}
	if q.WarrantyID != nil {
		query = query.Where("warranty_id = ?", *q.WarrantyID)
	}

	var records []model.ServiceRecord
	if err := query.Order("service_date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	out := make([]api.ServiceRecordDto, 0, len(records))
	for i := range records {
		out = append(out, records[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetServiceRecord(ctx context.Context, ref Ref) (api.ServiceRecordDto, error) {
	defer s.track("service_record", "get")()

	var r model.ServiceRecord
	if err := findChild(s.db.WithContext(ctx), &r, "service record", ref.UserID, ref.ID); err != nil {
		return api.ServiceRecordDto{}, err
	}
	return r.ToDto(), nil
}

func (s *Service) CreateServiceRecord(ctx context.Context, cmd CreateServiceRecordCommand) (api.ServiceRecordDto, error) {
	defer s.track("service_record", "create")()

	if cmd.ServiceDate == nil {
		return api.ServiceRecordDto{}, apperr.Invalid("service_date", "is required")
	}

	r := model.ServiceRecord{ID: uuid.New()}
	applyServiceRecordRequest(&r, cmd.ServiceRecordRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAppliance(tx, cmd.UserID, r.ApplianceID); err != nil {
			return err
		}
		if err := checkClaimedWarranty(tx, r.ApplianceID, r.WarrantyID); err != nil {
			return err
		}
		return tx.Omit("Warranty").Create(&r).Error
	})
	if err != nil {
		return api.ServiceRecordDto{}, fmt.Errorf("create service record: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingServiceRecordAdded, model.NewServiceRecordAddedEvent(&r, cmd.UserID, s.now()))
	return r.ToDto(), nil
}

func (s *Service) UpdateServiceRecord(ctx context.Context, cmd UpdateServiceRecordCommand) (api.ServiceRecordDto, error) {
	defer s.track("service_record", "update")()

	if cmd.ServiceDate == nil {
		return api.ServiceRecordDto{}, apperr.Invalid("service_date", "is required")
	}

	var r model.ServiceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findChild(tx, &r, "service record", cmd.UserID, cmd.ID); err != nil {
			return err
		}
		if r.ApplianceID != cmd.ApplianceID {
			if _, err := findAppliance(tx, cmd.UserID, cmd.ApplianceID); err != nil {
				return err
			}
		}
		if err := checkClaimedWarranty(tx, cmd.ApplianceID, cmd.WarrantyID); err != nil {
			return err
		}
		applyServiceRecordRequest(&r, cmd.ServiceRecordRequest)
		return tx.Omit("Warranty").Save(&r).Error
	})
	if err != nil {
		return api.ServiceRecordDto{}, fmt.Errorf("update service record: %w", err)
	}
	return r.ToDto(), nil
}

func (s *Service) DeleteServiceRecord(ctx context.Context, ref Ref) error {
	defer s.track("service_record", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r model.ServiceRecord
		if err := findChild(tx, &r, "service record", ref.UserID, ref.ID); err != nil {
			return err
		}
		return tx.Delete(&r).Error
	})
	if err != nil {
		return fmt.Errorf("delete service record: %w", err)
	}
	return nil
}

// checkClaimedWarranty requires warrantyID, when set, to belong to applianceID
func checkClaimedWarranty(tx *gorm.DB, applianceID uuid.UUID, warrantyID *uuid.UUID) error {
	if warrantyID == nil {
		return nil
	}
	var count int64
	err := tx.Model(&model.Warranty{}).
		Where("id = ? AND appliance_id = ?", *warrantyID, applianceID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.Invalid("warranty_id", "must reference a warranty of the same appliance")
	}
	return nil
}

func applyServiceRecordRequest(r *model.ServiceRecord, req api.ServiceRecordRequest) {
	r.ApplianceID = req.ApplianceID
	r.WarrantyID = req.WarrantyID
	if req.ServiceDate != nil {
		r.ServiceDate = *req.ServiceDate
	}
	r.ServiceProvider = req.ServiceProvider
	r.Description = req.Description
	r.Cost = req.Cost
}
