// Package bootstrap describes auth-service to the shared command tree.
package bootstrap

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/app"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/handler"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/seed"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/service"
)

const ServiceName = "auth-service"

func Service() app.Service {
	return app.Service{
		Name:   ServiceName,
		Models: model.Models(),
		Routes: func(rt *app.Runtime, e *echo.Echo) {
			svc := service.New(rt.DB, rt.JWT, rt.Operations)
			handler.New(svc).Register(e, rt.JWT)
		},
		Seed: func(ctx context.Context, rt *app.Runtime) error {
			return seed.Run(ctx, rt.DB, rt.Logger.Named("seed"))
		},
	}
}
