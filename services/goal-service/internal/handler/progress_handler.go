package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/service"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
)

func (h *Handler) ListProgress(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	goalID, err := validation.QueryID(c, "goal_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	entries, err := h.svc.ListProgress(c.Request().Context(), service.ListProgressQuery{
		UserID: owner,
		GoalID: goalID,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve progress")
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) GetProgress(c echo.Context) error {
	r, err := ref(c, "progress")
	if err != nil {
		return apperr.Respond(c, err, "Progress not found")
	}
	entry, err := h.svc.GetProgress(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve progress")
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) RecordProgress(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.ProgressRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	entry, err := h.svc.RecordProgress(c.Request().Context(), service.RecordProgressCommand{
		UserID:          owner,
		ProgressRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to record progress")
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) UpdateProgress(c echo.Context) error {
	r, err := ref(c, "progress")
	if err != nil {
		return apperr.Respond(c, err, "Progress not found")
	}
	var req api.ProgressRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	entry, err := h.svc.UpdateProgress(c.Request().Context(), service.UpdateProgressCommand{
		Ref:             r,
		ProgressRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update progress")
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteProgress(c echo.Context) error {
	r, err := ref(c, "progress")
	if err != nil {
		return apperr.Respond(c, err, "Progress not found")
	}
	if err := h.svc.DeleteProgress(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete progress")
	}
	return c.NoContent(http.StatusNoContent)
}
