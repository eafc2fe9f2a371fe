package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/middleware"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/service"
	"github.com/suteetoe/homeorganizer/services/auth-service/pkg/api"
	"go.uber.org/zap"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the public /auth routes and the authenticated profile route
func (h *Handler) Register(e *echo.Echo, jwtUtil *jwtutil.JWTUtil) {
	auth := e.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	users := e.Group("/api/users", middleware.JWTAuthMiddleware(jwtUtil))
	users.GET("/profile", h.Profile)
}

func (h *Handler) RegisterUser(c echo.Context) error {
	var req api.RegisterRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err, "Registration failed")
	}

	logger.FromEcho(c).Info("User registered",
		zap.String("user_id", resp.User.ID.String()),
		zap.String("email", resp.User.Email))
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c echo.Context) error {
	var req api.LoginRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return apperr.Respond(c, err, "Invalid request data")
	}

	resp, err := h.svc.Login(c.Request().Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return apperr.Respond(c, echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials"), "invalid credentials")
	}
	if err != nil {
		return apperr.Respond(c, err, "Login failed")
	}

	logger.FromEcho(c).Info("User logged in", zap.String("email", resp.User.Email))
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Profile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	user, err := h.svc.Profile(c.Request().Context(), userID)
	if err != nil {
		return apperr.Respond(c, err, "Failed to retrieve profile")
	}
	return c.JSON(http.StatusOK, user)
}
