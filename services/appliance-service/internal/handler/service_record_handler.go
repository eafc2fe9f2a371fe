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

func (h *Handler) ListServiceRecords(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	applianceID, err := validation.QueryID(c, "appliance_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}
	warrantyID, err := validation.QueryID(c, "warranty_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	records, err := h.svc.ListServiceRecords(c.Request().Context(), service.ListServiceRecordsQuery{
		UserID:      owner,
		ApplianceID: applianceID,
		WarrantyID:  warrantyID,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve service records")
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetServiceRecord(c echo.Context) error {
	r, err := ref(c, "service record")
	if err != nil {
		return apperr.Respond(c, err, "Service record not found")
	}
	record, err := h.svc.GetServiceRecord(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve service record")
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) CreateServiceRecord(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.ServiceRecordRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	record, err := h.svc.CreateServiceRecord(c.Request().Context(), service.CreateServiceRecordCommand{
		UserID:               owner,
		ServiceRecordRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create service record")
	}

	logger.FromEcho(c).Info("Service record created successfully",
		zap.String("service_record_id", record.ID.String()),
		zap.String("appliance_id", record.ApplianceID.String()))
	return c.JSON(http.StatusCreated, record)
}

func (h *Handler) UpdateServiceRecord(c echo.Context) error {
	r, err := ref(c, "service record")
	if err != nil {
		return apperr.Respond(c, err, "Service record not found")
	}
	var req api.ServiceRecordRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	record, err := h.svc.UpdateServiceRecord(c.Request().Context(), service.UpdateServiceRecordCommand{
		Ref:                  r,
		ServiceRecordRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update service record")
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteServiceRecord(c echo.Context) error {
	r, err := ref(c, "service record")
	if err != nil {
		return apperr.Respond(c, err, "Service record not found")
	}
	if err := h.svc.DeleteServiceRecord(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete service record")
	}
	return c.NoContent(http.StatusNoContent)
}
