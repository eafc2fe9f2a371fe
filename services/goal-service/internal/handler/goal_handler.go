package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/service"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"go.uber.org/zap"
)

var (
	goalStatuses = map[api.GoalStatus]bool{
		api.GoalStatusNotStarted: true,
		api.GoalStatusInProgress: true,
		api.GoalStatusCompleted:  true,
		api.GoalStatusOnHold:     true,
		api.GoalStatusCancelled:  true,
	}
	goalCategories = map[api.GoalCategory]bool{
		api.GoalCategoryCommunication:      true,
		api.GoalCategoryQualityTime:        true,
		api.GoalCategoryFinancial:          true,
		api.GoalCategoryAdventureAndTravel: true,
		api.GoalCategoryPersonalGrowth:     true,
		api.GoalCategoryHealthAndFitness:   true,
		api.GoalCategoryHome:               true,
		api.GoalCategoryOther:              true,
	}
)

// goalFilters reads ?status=, ?category= and ?is_shared=
func goalFilters(c echo.Context, q *service.ListGoalsQuery) error {
	if raw := c.QueryParam("status"); raw != "" {
		status := api.GoalStatus(raw)
		if !goalStatuses[status] {
			return apperr.Invalid("status", "must be one of NotStarted InProgress Completed OnHold Cancelled")
		}
		q.Status = &status
	}
	if raw := c.QueryParam("category"); raw != "" {
		category := api.GoalCategory(raw)
		if !goalCategories[category] {
			return apperr.Invalid("category", "is not a known category")
		}
		q.Category = &category
	}
	if raw := c.QueryParam("is_shared"); raw != "" {
		shared, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.Invalid("is_shared", "must be true or false")
		}
		q.IsShared = &shared
	}
	return nil
}

func (h *Handler) ListGoals(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	q := service.ListGoalsQuery{UserID: owner}
	if err := goalFilters(c, &q); err != nil {
		return apperr.Respond(c, err, "Invalid filter")
	}

	goals, err := h.svc.ListGoals(c.Request().Context(), q)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve goals")
	}
	return c.JSON(http.StatusOK, goals)
}

func (h *Handler) GetGoal(c echo.Context) error {
	r, err := ref(c, "goal")
	if err != nil {
		return apperr.Respond(c, err, "Goal not found")
	}
	goal, err := h.svc.GetGoal(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// CreateGoal answers 201 whether or not goal.created reached the broker
func (h *Handler) CreateGoal(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return err
	}
	var req api.GoalRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	goal, err := h.svc.CreateGoal(c.Request().Context(), service.CreateGoalCommand{
		UserID:      owner,
		GoalRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to create goal")
	}

	logger.FromEcho(c).Info("Goal created successfully",
		zap.String("goal_id", goal.ID.String()),
		zap.String("category", string(goal.Category)))
	return c.JSON(http.StatusCreated, goal)
}

func (h *Handler) UpdateGoal(c echo.Context) error {
	r, err := ref(c, "goal")
	if err != nil {
		return apperr.Respond(c, err, "Goal not found")
	}
	var req api.GoalRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	goal, err := h.svc.UpdateGoal(c.Request().Context(), service.UpdateGoalCommand{
		Ref:         r,
		GoalRequest: req,
	})
	if err != nil {
		return apperr.Respond(c, err, "Failed to update goal")
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *Handler) CompleteGoal(c echo.Context) error {
	r, err := ref(c, "goal")
	if err != nil {
		return apperr.Respond(c, err, "Goal not found")
	}
	goal, err := h.svc.CompleteGoal(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to complete goal")
	}

	logger.FromEcho(c).Info("Goal completed", zap.String("goal_id", goal.ID.String()))
	return c.JSON(http.StatusOK, goal)
}

func (h *Handler) StartGoal(c echo.Context) error {
	r, err := ref(c, "goal")
	if err != nil {
		return apperr.Respond(c, err, "Goal not found")
	}
	goal, err := h.svc.StartGoal(c.Request().Context(), r)
	if err != nil {
		return apperr.Respond(c, err, "Failed to start goal")
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *Handler) DeleteGoal(c echo.Context) error {
	r, err := ref(c, "goal")
	if err != nil {
		return apperr.Respond(c, err, "Goal not found")
	}
	if err := h.svc.DeleteGoal(c.Request().Context(), r); err != nil {
		return apperr.Respond(c, err, "Failed to delete goal")
	}

	logger.FromEcho(c).Info("Goal deleted successfully", zap.String("goal_id", r.ID.String()))
	return c.NoContent(http.StatusNoContent)
}
