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

func (h *Handler) ListWarranties(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	applianceID, err := validation.QueryID(c, "appliance_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	warranties, err := h.svc.ListWarranties(c.Request().Context(), service.ListWarrantiesQuery{
		UserID:      owner,
		ApplianceID: applianceID,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve warranties")
	}
	return c.JSON(http.StatusOK, warranties)
}

func (h *Handler) GetWarranty(c echo.Context) error {
	r, err := ref(c, "warranty")
	if err != nil {
		return apperr.Respond(c, err, "Warranty not found")
	}
	warranty, err := h.svc.GetWarranty(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve warranty")
	}
	return c.JSON(http.StatusOK, warranty)
}

func (h *Handler) CreateWarranty(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.WarrantyRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	warranty, err := h.svc.CreateWarranty(c.Request().Context(), service.CreateWarrantyCommand{
		UserID:          owner,
		WarrantyRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create warranty")
	}

	logger.FromEcho(c).Info("Warranty created successfully",
		zap.String("warranty_id", warranty.ID.String()),
		zap.String("appliance_id", warranty.ApplianceID.String()))
	return c.JSON(http.StatusCreated, warranty)
}

func (h *Handler) UpdateWarranty(c echo.Context) error {
	r, err := ref(c, "warranty")
	if err != nil {
		return apperr.Respond(c, err, "Warranty not found")
	}
	var req api.WarrantyRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	warranty, err := h.svc.UpdateWarranty(c.Request().Context(), service.UpdateWarrantyCommand{
		Ref:             r,
		WarrantyRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update warranty")
	}
	return c.JSON(http.StatusOK, warranty)
}

// DeleteWarranty keeps the service records claimed under the warranty and clears their link
func (h *Handler) DeleteWarranty(c echo.Context) error {
	r, err := ref(c, "warranty")
	if err != nil {
		return apperr.Respond(c, err, "Warranty not found")
	}
	if err := h.svc.DeleteWarranty(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete warranty")
	}

	logger.FromEcho(c).Info("Warranty deleted successfully", zap.String("warranty_id", r.ID.String()))
	return c.NoContent(http.StatusNoContent)
}
