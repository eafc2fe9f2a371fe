package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"github.com/suteetoe/homeorganizer/gomicro/middleware"
	"github.com/suteetoe/homeorganizer/gomicro/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures the echo instance built by New
type Options struct {
	ServiceName  string
	AllowOrigins []string
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer
}

// New builds an echo instance with the standard middleware stack,
// /health and /metrics endpoints.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	httpMetrics := metrics.NewHTTPMetrics(opts.ServiceName, opts.Registerer)

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Order matters: recover sits innermost so the outer layers observe the final status
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: origins}))
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": opts.ServiceName})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler(opts.Gatherer)))

	return e
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
