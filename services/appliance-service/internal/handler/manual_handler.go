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

func (h *Handler) ListManuals(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	applianceID, err := validation.QueryID(c, "appliance_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	manuals, err := h.svc.ListManuals(c.Request().Context(), service.ListManualsQuery{
		UserID:      owner,
		ApplianceID: applianceID,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve manuals")
	}
	return c.JSON(http.StatusOK, manuals)
}

func (h *Handler) GetManual(c echo.Context) error {
	r, err := ref(c, "manual")
	if err != nil {
		return apperr.Respond(c, err, "Manual not found")
	}
	manual, err := h.svc.GetManual(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve manual")
	}
	return c.JSON(http.StatusOK, manual)
}

// UploadManual handles storing a manual. The response does not depend on
// whether the manual.uploaded event reached the broker.
func (h *Handler) UploadManual(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.ManualRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	manual, err := h.svc.UploadManual(c.Request().Context(), service.UploadManualCommand{
		UserID:        owner,
		ManualRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to upload manual")
	}

	logger.FromEcho(c).Info("Manual uploaded successfully",
		zap.String("manual_id", manual.ID.String()),
		zap.String("appliance_id", manual.ApplianceID.String()),
		zap.String("title", manual.Title))
	return c.JSON(http.StatusCreated, manual)
}

func (h *Handler) UpdateManual(c echo.Context) error {
	r, err := ref(c, "manual")
	if err != nil {
		return apperr.Respond(c, err, "Manual not found")
	}
	var req api.ManualRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	manual, err := h.svc.UpdateManual(c.Request().Context(), service.UpdateManualCommand{
		Ref:           r,
		ManualRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update manual")
	}
	return c.JSON(http.StatusOK, manual)
}

func (h *Handler) DeleteManual(c echo.Context) error {
	r, err := ref(c, "manual")
	if err != nil {
		return apperr.Respond(c, err, "Manual not found")
	}
	if err := h.svc.DeleteManual(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete manual")
	}

	logger.FromEcho(c).Info("Manual deleted successfully", zap.String("manual_id", r.ID.String()))
	return c.NoContent(http.StatusNoContent)
}
