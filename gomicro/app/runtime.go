// Package app wires configuration, logging, storage, metrics and event
// publishing for a service and exposes them through a cobra command tree.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/suteetoe/homeorganizer/gomicro/config"
	"github.com/suteetoe/homeorganizer/gomicro/database"
	"github.com/suteetoe/homeorganizer/gomicro/events"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Runtime is the set of shared dependencies handed to a service
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	JWT        *jwtutil.JWTUtil
	Registry   *prometheus.Registry
	Operations *metrics.OperationMetrics
	Emitter    *events.Emitter
}

// Bootstrap loads configuration and opens every shared dependency
func Bootstrap(serviceName string) (*Runtime, error) {
	conf, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	}); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	db, err := database.InitDB(&conf.DB, log)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return NewRuntime(conf, log, db), nil
}

// NewRuntime assembles a Runtime around an already opened database
func NewRuntime(conf *config.Config, log *zap.Logger, db *gorm.DB) *Runtime {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var publisher events.Publisher = events.NopPublisher{}
	if conf.Broker.Enabled() {
		publisher = events.NewAMQPPublisher(conf.Broker.URL, log.Named("events"))
	} else {
		log.Info("BROKER_URL not set, domain events are disabled")
	}

	emitter := events.NewEmitter(publisher, events.EmitterConfig{
		Exchange: conf.Broker.Exchange,
		Timeout:  conf.Broker.PublishTimeout,
		Enabled:  conf.Broker.Enabled(),
		Metrics:  metrics.NewEventMetrics(conf.ServiceName, reg),
	})

	return &Runtime{
		Config: conf,
		Logger: log,
		DB:     db,
		JWT: jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
			SigningKey:      conf.JWT.SigningKey,
			ExpirationHours: conf.JWT.ExpirationHours,
		}),
		Registry:   reg,
		Operations: metrics.NewOperationMetrics(conf.Metrics.Prefix, reg),
		Emitter:    emitter,
	}
}

// Close releases the broker connection and the database pool
func (r *Runtime) Close() {
	if err := r.Emitter.Close(); err != nil {
		r.Logger.Warn("Failed to close event publisher", zap.Error(err))
	}
	if err := database.Close(r.DB); err != nil {
		r.Logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = r.Logger.Sync()
}
