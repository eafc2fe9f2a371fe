package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suteetoe/homeorganizer/gomicro/logger"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"go.uber.org/zap"
)

// Emitter performs best-effort publishes for one service exchange
type Emitter struct {
	publisher Publisher
	exchange  string
	timeout   time.Duration
	enabled   bool
	metrics   *metrics.EventMetrics
}

// EmitterConfig configures an Emitter
type EmitterConfig struct {
	Exchange string
	Timeout  time.Duration
	// Enabled false records every emit as disabled without calling the publisher
	Enabled bool
	Metrics *metrics.EventMetrics
}

// NewEmitter creates an Emitter writing to publisher
func NewEmitter(publisher Publisher, cfg EmitterConfig) *Emitter {
	if publisher == nil {
		publisher = NopPublisher{}
		cfg.Enabled = false
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &Emitter{
		publisher: publisher,
		exchange:  cfg.Exchange,
		timeout:   cfg.Timeout,
		enabled:   cfg.Enabled,
		metrics:   cfg.Metrics,
	}
}

// Exchange returns the exchange events are published to
func (e *Emitter) Exchange() string {
	return e.exchange
}

// Emit serializes event and attempts a single publish under routingKey.
// It returns once the attempt finishes or the timeout elapses and never
// reports failure: errors and panics are logged as warnings and swallowed.
// The attempt is detached from ctx cancellation because the write it
// describes has already committed.
func (e *Emitter) Emit(ctx context.Context, routingKey string, event any) {
	if e == nil {
		return
	}
	log := logger.FromContext(ctx).With(
		zap.String("exchange", e.exchange),
		zap.String("routing_key", routingKey),
	)

	if !e.enabled {
		e.metrics.Record(e.exchange, routingKey, metrics.OutcomeDisabled)
		log.Debug("Event publishing disabled, dropping event")
		return
	}

	if err := e.publish(ctx, routingKey, event); err != nil {
		e.metrics.Record(e.exchange, routingKey, metrics.OutcomeFailed)
		log.Warn("Failed to publish event", zap.Error(err))
		return
	}

	e.metrics.Record(e.exchange, routingKey, metrics.OutcomePublished)
	log.Debug("Event published")
}

func (e *Emitter) publish(ctx context.Context, routingKey string, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
		}
	}()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	return e.publisher.Publish(pubCtx, e.exchange, routingKey, body)
}

// Close closes the underlying publisher
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	return e.publisher.Close()
}
