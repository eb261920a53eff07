package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/ukydev/car-maintenance-tracker/internal/auth"
	"github.com/ukydev/car-maintenance-tracker/internal/config"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/handlers"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/server"
	"github.com/ukydev/car-maintenance-tracker/internal/services"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cartech-server",
		Short:         "Car maintenance tracker API",
		Long:          "Serves the car and maintenance record API for the demo user. All data lives in memory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cfg.NewLogger())
		},
	}
	config.AddFlags(cmd.Flags())
	return cmd
}

// newHandler builds the stores, seeds them and wires the HTTP stack. The
// returned metrics back the separate metrics listener when one is configured.
func newHandler(ctx context.Context, cfg config.Config, logger *logrus.Logger) (http.Handler, *metrics.Metrics, error) {
	authService, err := auth.NewService(auth.Identity{
		Email:    cfg.DemoUserEmail,
		Password: cfg.DemoUserPassword,
		Name:     cfg.DemoUserName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	cars := db.NewCarStore()
	if err := db.SeedDemoCars(ctx, cars); err != nil {
		return nil, nil, err
	}
	records := db.NewMaintenanceStore()

	m := metrics.New()
	m.RegisterStoreSize(metrics.EntityCar, cars.Len)
	m.RegisterStoreSize(metrics.EntityMaintenance, records.Len)

	return handlers.NewRouter(handlers.RouterConfig{
		BasePath:        cfg.BasePath,
		AllowedOrigins:  cfg.AllowedOrigins(),
		LoginRateLimit:  cfg.LoginRateLimit,
		SeparateMetrics: cfg.MetricsAddr() != "",
		Auth:            authService,
		Cars:            cars,
		Maintenance:     services.NewMaintenanceService(records, m, logrus.NewEntry(logger)),
		Metrics:         m,
		Log:             logger,
	}), m, nil
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	handler, m, err := newHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"port":        cfg.ServerPort,
		"base_path":   cfg.BasePath,
		"origins":     cfg.AllowedOrigins(),
		"metrics":     cfg.MetricsAddr(),
	}).Info("Starting car maintenance tracker")

	g, ctx := errgroup.WithContext(ctx)
	apiServer := server.New(cfg.Addr(), handler, cfg.ShutdownTimeout, logger.WithField("server", "api"))
	g.Go(func() error {
		return apiServer.Start(ctx)
	})
	if addr := cfg.MetricsAddr(); addr != "" {
		metricsServer := server.New(addr, handlers.NewMetricsRouter(m), cfg.ShutdownTimeout, logger.WithField("server", "metrics"))
		g.Go(func() error {
			return metricsServer.Start(ctx)
		})
	}
	return g.Wait()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("Server exited")
		os.Exit(1)
	}
}
