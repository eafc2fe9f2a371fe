package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateApplianceCommand struct {
	UserID uuid.UUID
	api.ApplianceRequest
}

type UpdateApplianceCommand struct {
	Ref
	api.ApplianceRequest
}

// ListAppliancesQuery filters the appliances of UserID. Zero fields do not filter.
type ListAppliancesQuery struct {
	UserID        uuid.UUID
	RoomID        *uuid.UUID
	ApplianceType api.ApplianceType
}

func (s *Service) ListAppliances(ctx context.Context, q ListAppliancesQuery) ([]api.ApplianceDto, error) {
	defer s.track("appliance", "list")()

	query := s.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.RoomID != nil {
		query = query.Where("room_id = ?", *q.RoomID)
	}
	if q.ApplianceType != "" {
		query = query.Where("appliance_type = ?", string(q.ApplianceType))
	}

	var appliances []model.Appliance
	if err := query.Order("name").Find(&appliances).Error; err != nil {
		return nil, fmt.Errorf("list appliances: %w", err)
	}
	out := make([]api.ApplianceDto, 0, len(appliances))
	for i := range appliances {
		out = append(out, appliances[i].ToDto())
	}
	return out, nil
}

// GetAppliance returns the appliance with its warranties, manuals and service history
func (s *Service) GetAppliance(ctx context.Context, ref Ref) (api.ApplianceDetailDto, error) {
	defer s.track("appliance", "get")()

	var a model.Appliance
	err := s.db.WithContext(ctx).
		Preload("Warranties", func(db *gorm.DB) *gorm.DB { return db.Order("start_date") }).
		Preload("Manuals", func(db *gorm.DB) *gorm.DB { return db.Order("title") }).
		Preload("ServiceRecords", func(db *gorm.DB) *gorm.DB { return db.Order("service_date DESC") }).
		Where("id = ? AND user_id = ?", ref.ID, ref.UserID).
		First(&a).Error
	if err != nil {
		return api.ApplianceDetailDto{}, notFoundOr(err, "appliance", ref.ID)
	}
	return a.ToDetailDto(), nil
}

func (s *Service) CreateAppliance(ctx context.Context, cmd CreateApplianceCommand) (api.ApplianceDto, error) {
	defer s.track("appliance", "create")()

	a := model.Appliance{ID: uuid.New(), UserID: cmd.UserID}
	applyApplianceRequest(&a, cmd.ApplianceRequest)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.RoomID != nil {
			if _, err := findRoom(tx, cmd.UserID, *a.RoomID); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(&a).Error
	})
	if err != nil {
		return api.ApplianceDto{}, fmt.Errorf("create appliance: %w", err)
	}

	s.emitter.Emit(ctx, model.RoutingApplianceAdded, model.NewApplianceAddedEvent(&a, s.now()))
	return a.ToDto(), nil
}

func (s *Service) UpdateAppliance(ctx context.Context, cmd UpdateApplianceCommand) (api.ApplianceDto, error) {
	defer s.track("appliance", "update")()

	var a *model.Appliance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		a, err = findAppliance(tx, cmd.UserID, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.RoomID != nil {
			if _, err := findRoom(tx, cmd.UserID, *cmd.RoomID); err != nil {
				return err
			}
		}
		applyApplianceRequest(a, cmd.ApplianceRequest)
		return tx.Omit(clause.Associations).Save(a).Error
	})
	if err != nil {
		return api.ApplianceDto{}, fmt.Errorf("update appliance: %w", err)
	}
	return a.ToDto(), nil
}

// DeleteAppliance removes the appliance together with its warranties, manuals
// and service records
func (s *Service) DeleteAppliance(ctx context.Context, ref Ref) error {
	defer s.track("appliance", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := findAppliance(tx, ref.UserID, ref.ID)
		if err != nil {
			return err
		}
		for _, child := range []interface{}{&model.ServiceRecord{}, &model.Manual{}, &model.Warranty{}} {
			if err := tx.Where("appliance_id = ?", a.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(a).Error
	})
	if err != nil {
		return fmt.Errorf("delete appliance: %w", err)
	}
	return nil
}

func applyApplianceRequest(a *model.Appliance, req api.ApplianceRequest) {
	applianceType := req.ApplianceType
	if applianceType == "" {
		applianceType = api.ApplianceTypeOther
	}
	a.RoomID = req.RoomID
	a.Name = req.Name
	a.ApplianceType = string(applianceType)
	a.Brand = req.Brand
	a.ModelNumber = req.ModelNumber
	a.SerialNumber = req.SerialNumber
	a.PurchaseDate = req.PurchaseDate
	a.PurchasePrice = req.PurchasePrice
}
