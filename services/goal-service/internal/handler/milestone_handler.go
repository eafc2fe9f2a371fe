package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/service"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"go.uber.org/zap"
)

func (h *Handler) ListMilestones(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	goalID, err := validation.QueryID(c, "goal_id")
	if err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	milestones, err := h.svc.ListMilestones(c.Request().Context(), service.ListMilestonesQuery{
		UserID: owner,
		GoalID: goalID,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve milestones")
	}
	return c.JSON(http.StatusOK, milestones)
}

func (h *Handler) GetMilestone(c echo.Context) error {
	r, err := ref(c, "milestone")
	if err != nil {
		return apperr.Respond(c, err, "Milestone not found")
	}
	milestone, err := h.svc.GetMilestone(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve milestone")
	}
	return c.JSON(http.StatusOK, milestone)
}

func (h *Handler) CreateMilestone(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.MilestoneRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	milestone, err := h.svc.CreateMilestone(c.Request().Context(), service.CreateMilestoneCommand{
		UserID:           owner,
		MilestoneRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create milestone")
	}
	return c.JSON(http.StatusCreated, milestone)
}

func (h *Handler) UpdateMilestone(c echo.Context) error {
	r, err := ref(c, "milestone")
	if err != nil {
		return apperr.Respond(c, err, "Milestone not found")
	}
	var req api.MilestoneRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	milestone, err := h.svc.UpdateMilestone(c.Request().Context(), service.UpdateMilestoneCommand{
		Ref:              r,
		MilestoneRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update milestone")
	}
	return c.JSON(http.StatusOK, milestone)
}

func (h *Handler) CompleteMilestone(c echo.Context) error {
	r, err := ref(c, "milestone")
	if err != nil {
		return apperr.Respond(c, err, "Milestone not found")
	}
	milestone, err := h.svc.CompleteMilestone(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to complete milestone")
	}

	logger.FromEcho(c).Info("Milestone completed",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("goal_id", milestone.GoalID.String()))
	return c.JSON(http.StatusOK, milestone)
}

func (h *Handler) DeleteMilestone(c echo.Context) error {
	r, err := ref(c, "milestone")
	if err != nil {
		return apperr.Respond(c, err, "Milestone not found")
	}
	if err := h.svc.DeleteMilestone(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete milestone")
	}
	return c.NoContent(http.StatusNoContent)
}
