package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/middleware"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/service"
)

// Handler serves the appliance-service REST API
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts every resource under /api behind JWT authentication
func (h *Handler) Register(e *echo.Echo, jwtUtil *jwtutil.JWTUtil) {
	api := e.Group("/api", middleware.JWTAuthMiddleware(jwtUtil))

	rooms := api.Group("/rooms")
	rooms.GET("", h.ListRooms)
	rooms.GET("/:id", h.GetRoom)
	rooms.POST("", h.CreateRoom)
	rooms.PUT("/:id", h.UpdateRoom)
	rooms.DELETE("/:id", h.DeleteRoom)

	appliances := api.Group("/appliances")
	appliances.GET("", h.ListAppliances)
	appliances.GET("/:id", h.GetAppliance)
	appliances.POST("", h.CreateAppliance)
	appliances.PUT("/:id", h.UpdateAppliance)
	appliances.DELETE("/:id", h.DeleteAppliance)

	warranties := api.Group("/warranties")
	warranties.GET("", h.ListWarranties)
	warranties.GET("/:id", h.GetWarranty)
	warranties.POST("", h.CreateWarranty)
	warranties.PUT("/:id", h.UpdateWarranty)
	warranties.DELETE("/:id", h.DeleteWarranty)

	manuals := api.Group("/manuals")
	manuals.GET("", h.ListManuals)
	manuals.GET("/:id", h.GetManual)
	manuals.POST("", h.UploadManual)
	manuals.PUT("/:id", h.UpdateManual)
	manuals.DELETE("/:id", h.DeleteManual)

	records := api.Group("/service-records")
	records.GET("", h.ListServiceRecords)
	records.GET("/:id", h.GetServiceRecord)
	records.POST("", h.CreateServiceRecord)
	records.PUT("/:id", h.UpdateServiceRecord)
	records.DELETE("/:id", h.DeleteServiceRecord)
}

// ref resolves the authenticated owner and the :id path parameter
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
