package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/middleware"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/service"
)

// Handler serves the goal-service REST API
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo, jwtUtil *jwtutil.JWTUtil) {
	api := e.Group("/api", middleware.JWTAuthMiddleware(jwtUtil))

	goals := api.Group("/goals")
	goals.GET("", h.ListGoals)
	goals.GET("/:id", h.GetGoal)
	goals.POST("", h.CreateGoal)
	goals.PUT("/:id", h.UpdateGoal)
	goals.DELETE("/:id", h.DeleteGoal)
	goals.POST("/:id/complete", h.CompleteGoal)
	goals.POST("/:id/start", h.StartGoal)

	milestones := api.Group("/milestones")
	milestones.GET("", h.ListMilestones)
	milestones.GET("/:id", h.GetMilestone)
	milestones.POST("", h.CreateMilestone)
	milestones.PUT("/:id", h.UpdateMilestone)
	milestones.DELETE("/:id", h.DeleteMilestone)
	milestones.POST("/:id/complete", h.CompleteMilestone)

	progress := api.Group("/progress")
	progress.GET("", h.ListProgress)
	progress.GET("/:id", h.GetProgress)
	progress.POST("", h.RecordProgress)
	progress.PUT("/:id", h.UpdateProgress)
	progress.DELETE("/:id", h.DeleteProgress)
}

func ref(c echo.Context, entity string) (service.Ref, error) {
	owner, err := userID(c)
	if err != nil {
		return service.Ref{}, err
	}
	id, err := validation.PathID(c, entity, "id")
	if err != nil {
		return service.Ref{}, err
	}
	return service.Ref{UserID: owner, ID: id}, nil
}

func userID(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, echo.ErrUnauthorized
	}
	return id, nil
}
