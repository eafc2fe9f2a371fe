package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/suteetoe/homeorganizer/gomicro/database"
	"github.com/suteetoe/homeorganizer/gomicro/server"
	"go.uber.org/zap"
)

// Service describes one application of the monorepo
type Service struct {
	Name   string
	Models []interface{}
	// Routes registers the service API on e
	Routes func(rt *Runtime, e *echo.Echo)
	// Seed inserts sample data; it must be a no-op when data already exists
	Seed func(ctx context.Context, rt *Runtime) error
}

// NewServer builds the HTTP server for svc on top of rt
func NewServer(svc Service, rt *Runtime) *echo.Echo {
	e := server.New(server.Options{
		ServiceName:  svc.Name,
		AllowOrigins: rt.Config.Server.AllowOrigins,
		Registerer:   rt.Registry,
		Gatherer:     rt.Registry,
	})
	svc.Routes(rt, e)
	return e
}

// NewRootCommand returns the cobra command tree for svc: serve, migrate, seed
func NewRootCommand(svc Service) *cobra.Command {
	root := &cobra.Command{
		Use:           svc.Name,
		Short:         "Run and manage " + svc.Name,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(svc, func(rt *Runtime) error {
				if err := database.MigrateModels(rt.DB, svc.Models...); err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if rt.Config.Server.SeedOnStart && svc.Seed != nil {
					if err := svc.Seed(ctx, rt); err != nil {
						return fmt.Errorf("seed: %w", err)
					}
				}

				e := NewServer(svc, rt)
				return server.Run(ctx, e, ":"+rt.Config.Server.Port, rt.Logger)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(svc, func(rt *Runtime) error {
				if err := database.MigrateModels(rt.DB, svc.Models...); err != nil {
					return err
				}
				rt.Logger.Info("Database migrated", zap.Int("models", len(svc.Models)))
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert sample data when the database is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			if svc.Seed == nil {
				return fmt.Errorf("%s has no seed data", svc.Name)
			}
			return withRuntime(svc, func(rt *Runtime) error {
				if err := database.MigrateModels(rt.DB, svc.Models...); err != nil {
					return err
				}
				return svc.Seed(cmd.Context(), rt)
			})
		},
	})

	return root
}

// Main executes the command tree and exits non-zero on failure
func Main(svc Service) {
	if err := NewRootCommand(svc).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", svc.Name, err)
		os.Exit(1)
	}
}

func withRuntime(svc Service, fn func(rt *Runtime) error) error {
	rt, err := Bootstrap(svc.Name)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}
