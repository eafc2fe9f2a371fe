package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/service"
	"github.com/suteetoe/homeorganizer/services/appliance-service/pkg/api"
	"go.uber.org/zap"
)

func (h *Handler) ListRooms(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	rooms, err := h.svc.ListRooms(c.Request().Context(), owner)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve rooms")
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c echo.Context) error {
	r, err := ref(c, "room")
	if err != nil {
		return apperr.Respond(c, err, "Room not found")
	}
	room, err := h.svc.GetRoom(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve room")
	}
	return c.JSON(http.StatusOK, room)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.RoomRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	room, err := h.svc.CreateRoom(c.Request().Context(), service.CreateRoomCommand{UserID: owner, RoomRequest: req})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create room")
	}

	logger.FromEcho(c).Info("Room created successfully",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name))
	return c.JSON(http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(c echo.Context) error {
	r, err := ref(c, "room")
	if err != nil {
		return apperr.Respond(c, err, "Room not found")
	}
	var req api.RoomRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	room, err := h.svc.UpdateRoom(c.Request().Context(), service.UpdateRoomCommand{Ref: r, RoomRequest: req})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update room")
	}
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom answers 409 while appliances are still assigned to the room
func (h *Handler) DeleteRoom(c echo.Context) error {
	r, err := ref(c, "room")
	if err != nil {
		return apperr.Respond(c, err, "Room not found")
	}
	if err := h.svc.DeleteRoom(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete room")
	}

	logger.FromEcho(c).Info("Room deleted successfully", zap.String("room_id", r.ID.String()))
	return c.NoContent(http.StatusNoContent)
}
