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

// ListAppliances handles retrieving the caller's appliances, optionally filtered
// by room_id and appliance_type
func (h *Handler) ListAppliances(c echo.Context) error {
	log := logger.FromEcho(c)

	owner, err := userID(c)
	if err != nil {
		return err
	}
	roomID, err := validation.QueryID(c, "room_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	appliances, err := h.svc.ListAppliances(c.Request().Context(), service.ListAppliancesQuery{
		UserID:        owner,
		RoomID:        roomID,
		ApplianceType: api.ApplianceType(c.QueryParam("appliance_type")),
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve appliances")
	}

	log.Info("Appliances retrieved successfully", zap.Int("count", len(appliances)))
	return c.JSON(http.StatusOK, appliances)
}

// GetAppliance handles retrieving one appliance with its warranties, manuals and service history
func (h *Handler) GetAppliance(c echo.Context) error {
	r, err := ref(c, "appliance")
	if err != nil {
		return apperr.Respond(c, err, "Appliance not found")
	}

	appliance, err := h.svc.GetAppliance(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve appliance")
	}
	return c.JSON(http.StatusOK, appliance)
}

// CreateAppliance handles creating a new appliance
func (h *Handler) CreateAppliance(c echo.Context) error {
	log := logger.FromEcho(c)

	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.ApplianceRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	appliance, err := h.svc.CreateAppliance(c.Request().Context(), service.CreateApplianceCommand{
		UserID:           owner,
		ApplianceRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create appliance")
	}

	log.Info("Appliance created successfully",
		zap.String("appliance_id", appliance.ID.String()),
		zap.String("name", appliance.Name),
		zap.String("appliance_type", string(appliance.ApplianceType)))
	return c.JSON(http.StatusCreated, appliance)
}

// UpdateAppliance handles replacing an existing appliance
func (h *Handler) UpdateAppliance(c echo.Context) error {
	log := logger.FromEcho(c)

	r, err := ref(c, "appliance")
	if err != nil {
		return apperr.Respond(c, err, "Appliance not found")
	}
	var req api.ApplianceRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	appliance, err := h.svc.UpdateAppliance(c.Request().Context(), service.UpdateApplianceCommand{
		Ref:              r,
		ApplianceRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update appliance")
	}

	log.Info("Appliance updated successfully", zap.String("appliance_id", appliance.ID.String()))
	return c.JSON(http.StatusOK, appliance)
}

// DeleteAppliance handles deleting an appliance and everything attached to it
func (h *Handler) DeleteAppliance(c echo.Context) error {
	log := logger.FromEcho(c)

	r, err := ref(c, "appliance")
	if err != nil {
		return apperr.Respond(c, err, "Appliance not found")
	}
	if err := h.svc.DeleteAppliance(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete appliance")
	}

	log.Info("Appliance deleted successfully", zap.String("appliance_id", r.ID.String()))
	return c.NoContent(http.StatusNoContent)
}
