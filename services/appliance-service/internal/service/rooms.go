package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"gorm.io/gorm"
)

type CreateRoomCommand struct {
	UserID uuid.UUID
	api.RoomRequest
}

type UpdateRoomCommand struct {
	Ref
	api.RoomRequest
}

func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID) ([]api.RoomDto, error) {
	defer s.track("room", "list")()

	var rooms []model.Room
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	out := make([]api.RoomDto, 0, len(rooms))
	for i := range rooms {
		out = append(out, rooms[i].ToDto())
	}
	return out, nil
}

func (s *Service) GetRoom(ctx context.Context, ref Ref) (api.RoomDto, error) {
	defer s.track("room", "get")()

	r, err := findRoom(s.db.WithContext(ctx), ref.UserID, ref.ID)
	if err != nil {
		return api.RoomDto{}, err
	}
	return r.ToDto(), nil
}

func (s *Service) CreateRoom(ctx context.Context, cmd CreateRoomCommand) (api.RoomDto, error) {
	defer s.track("room", "create")()

	room := model.Room{
		ID:     uuid.New(),
		UserID: cmd.UserID,
		Name:   cmd.Name,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureRoomNameFree(tx, cmd.UserID, cmd.Name, uuid.Nil); err != nil {
			return err
		}
		return roomNameTaken(tx.Create(&room).Error, cmd.Name)
	})
	if err != nil {
		return api.RoomDto{}, fmt.Errorf("create room: %w", err)
	}
	return room.ToDto(), nil
}

func (s *Service) UpdateRoom(ctx context.Context, cmd UpdateRoomCommand) (api.RoomDto, error) {
	defer s.track("room", "update")()

	var room *model.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = findRoom(tx, cmd.UserID, cmd.ID)
		if err != nil {
			return err
		}
		if err := s.ensureRoomNameFree(tx, cmd.UserID, cmd.Name, room.ID); err != nil {
			return err
		}
		room.Name = cmd.Name
		return roomNameTaken(tx.Save(room).Error, cmd.Name)
	})
	if err != nil {
		return api.RoomDto{}, fmt.Errorf("update room: %w", err)
	}
	return room.ToDto(), nil
}

// DeleteRoom refuses with a conflict while any appliance is still in the room
func (s *Service) DeleteRoom(ctx context.Context, ref Ref) error {
	defer s.track("room", "delete")()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, ref.UserID, ref.ID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Appliance{}).Where("room_id = ?", room.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("room %q still holds %d appliance(s)", room.Name, count)
		}
		return tx.Delete(room).Error
	})
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

func (s *Service) ensureRoomNameFree(tx *gorm.DB, userID uuid.UUID, name string, except uuid.UUID) error {
	var count int64
	err := tx.Model(&model.Room{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, except).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("room %q already exists", name)
	}
	return nil
}

// roomNameTaken reports a unique index violation from a concurrent writer as a conflict
func roomNameTaken(err error, name string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("room %q already exists", name)
	}
	return err
}
