// Package bootstrap describes goal-service to the shared command tree.
package bootstrap

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/homeorganizer/gomicro/app"
	"github.com/suteetoe/homeorganizer/gomicro/database"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/handler"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/seed"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/service"
)

const ServiceName = "goal-service"

func Service() app.Service {
	return app.Service{
		Name:   ServiceName,
		Models: model.Models(),
		Routes: func(rt *app.Runtime, e *echo.Echo) {
			svc := service.New(rt.DB, rt.Emitter, rt.Operations)
			handler.New(svc).Register(e, rt.JWT)
		},
		Seed: func(ctx context.Context, rt *app.Runtime) error {
			return seed.Run(ctx, rt.DB, rt.Logger.Named("seed"), database.Now())
		},
	}
}
