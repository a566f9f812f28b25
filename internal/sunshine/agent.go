package sunshine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/saaga0h/jeeves-sunshine/internal/ephemeris"
	"github.com/saaga0h/jeeves-sunshine/internal/threshold"
	"github.com/saaga0h/jeeves-sunshine/pkg/config"
	"github.com/saaga0h/jeeves-sunshine/pkg/mqtt"
	"github.com/saaga0h/jeeves-sunshine/pkg/redis"
)

const (
	// TriggerManualStart marks the eager update run at startup
	TriggerManualStart = "manual_start"
	// TriggerStateChange marks an update caused by a sun state message
	TriggerStateChange = "state_change"

	tickTimeout = 5 * time.Second
)

var (
	// ErrMissingTargetEntity indicates no output entity was configured
	ErrMissingTargetEntity = errors.New("invalid configuration: sunshine needs a valid entity to store results")

	// ErrUnknownEntity indicates the output entity is not in the host registry
	ErrUnknownEntity = errors.New("entity does not exist in the entity registry")
)

// Status is a snapshot of the agent's publishing state
type Status struct {
	Entity        string    `json:"entity"`
	Value         *float64  `json:"value,omitempty"`
	DayBrightness int       `json:"day_brightness,omitempty"`
	Daytime       bool      `json:"daytime"`
	LastUpdate    time.Time `json:"last_update"`
	LastTrigger   string    `json:"last_trigger,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	Published     int       `json:"published"`
	Failed        int       `json:"failed"`
}

// Agent publishes the sunshine brightness threshold whenever the sun
// ephemeris changes
type Agent struct {
	mqtt       mqtt.Client
	redis      redis.Client
	cfg        *config.Config
	logger     *slog.Logger
	calculator *threshold.Calculator
	clock      *TimeManager

	// Serializes update cycles between the startup tick and MQTT callbacks
	tickMux sync.Mutex

	statusMux sync.RWMutex
	status    Status
}

// NewAgent creates a new sunshine agent. Envelope settings that violate
// floor < cap or buffer >= 0 are corrected here, once.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Agent {
	calculator := threshold.NewCalculator(threshold.Config{
		Floor:  cfg.Floor,
		Cap:    cfg.Cap,
		Buffer: cfg.Buffer,
	}, logger)

	return &Agent{
		mqtt:       mqttClient,
		redis:      redisClient,
		cfg:        cfg,
		logger:     logger,
		calculator: calculator,
		clock:      NewTimeManager(logger),
		status:     Status{Entity: cfg.Entity},
	}
}

// Start connects to the host, validates the output entity, runs one update
// from the current sun state and then follows sun state changes
func (a *Agent) Start(ctx context.Context) error {
	effective := a.calculator.Config()
	a.logger.Info("Starting sunshine agent",
		"service_name", a.cfg.ServiceName,
		"entity", a.cfg.Entity,
		"sun_entity", a.cfg.SunEntity,
		"floor", effective.Floor,
		"cap", effective.Cap,
		"buffer", effective.Buffer)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	if err := a.ValidateTarget(ctx); err != nil {
		return err
	}

	if err := a.clock.ConfigureFromMQTT(a.mqtt); err != nil {
		a.logger.Warn("Failed to subscribe to test mode config", "error", err)
		// Not fatal - continue without test mode support
	}

	sunTopic := mqtt.StateTopic(a.cfg.SunEntity)
	if err := a.mqtt.Subscribe(sunTopic, 1, a.handleSunMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", sunTopic, err)
	}

	// Don't wait for the first sun change to publish a value
	a.updateFromSnapshot(ctx)

	a.logger.Info("Sunshine agent started and ready")

	<-ctx.Done()
	a.logger.Info("Sunshine agent stopping")

	return nil
}

// Stop gracefully stops the sunshine agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping sunshine agent")

	a.mqtt.Disconnect()

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Sunshine agent stopped")
	return nil
}

// ValidateTarget checks that the output entity is configured and registered
// with the host
func (a *Agent) ValidateTarget(ctx context.Context) error {
	if a.cfg.Entity == "" {
		return ErrMissingTargetEntity
	}

	exists, err := a.redis.SIsMember(ctx, redis.EntityRegistryKey, a.cfg.Entity)
	if err != nil {
		return fmt.Errorf("failed to look up entity %s: %w", a.cfg.Entity, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s, please create it", ErrUnknownEntity, a.cfg.Entity)
	}

	return nil
}

// updateFromSnapshot runs the startup update from the sun state stored in
// Redis. A missing snapshot only delays the first value.
func (a *Agent) updateFromSnapshot(ctx context.Context) {
	payload, err := a.redis.Get(ctx, redis.StateKey(a.cfg.SunEntity))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			a.logger.Warn("No sun state available yet, waiting for first change",
				"sun_entity", a.cfg.SunEntity)
		} else {
			a.logger.Warn("Failed to read sun state", "sun_entity", a.cfg.SunEntity, "error", err)
		}
		return
	}

	a.HandleSunState([]byte(payload), TriggerManualStart)
}

// handleSunMessage handles sun state messages from MQTT
func (a *Agent) handleSunMessage(msg mqtt.Message) {
	a.logger.Debug("Received sun state", "topic", msg.Topic(), "retained", msg.Retained())
	a.HandleSunState(msg.Payload(), TriggerStateChange)
}

// HandleSunState runs one update cycle. Failures are logged and the tick is
// dropped; the previously published value stays in place.
func (a *Agent) HandleSunState(payload []byte, trigger string) {
	a.tickMux.Lock()
	defer a.tickMux.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	result, err := a.update(ctx, payload)
	if err != nil {
		a.logger.Error("Error calculating brightness", "trigger", trigger, "error", err)
		a.recordFailure(trigger, err)
		return
	}

	a.recordSuccess(trigger, result)
	a.logger.Info("Updated sunshine brightness threshold",
		"entity", a.cfg.Entity,
		"threshold", result.Value,
		"day_brightness", result.DayBrightness,
		"daytime", result.Daytime,
		"trigger", trigger)
}

// update parses the sun state, computes the threshold and publishes it
func (a *Agent) update(ctx context.Context, payload []byte) (threshold.Result, error) {
	event, err := ephemeris.ParseSunEvent(payload)
	if err != nil {
		return threshold.Result{}, err
	}

	now := a.clock.Now().In(event.Sunrise.Location())
	a.logger.Debug("Sun events",
		"sunrise", event.Sunrise,
		"sunset", event.Sunset,
		"now", now)

	result, err := a.calculator.InstantThreshold(now, event.Sunrise, event.Sunset)
	if err != nil {
		return threshold.Result{}, err
	}

	if err := a.publish(ctx, result, now); err != nil {
		return threshold.Result{}, err
	}

	return result, nil
}

func (a *Agent) recordSuccess(trigger string, result threshold.Result) {
	a.statusMux.Lock()
	defer a.statusMux.Unlock()

	value := result.Value
	a.status.Value = &value
	a.status.DayBrightness = result.DayBrightness
	a.status.Daytime = result.Daytime
	a.status.LastUpdate = a.clock.Now()
	a.status.LastTrigger = trigger
	a.status.LastError = ""
	a.status.Published++
}

func (a *Agent) recordFailure(trigger string, err error) {
	a.statusMux.Lock()
	defer a.statusMux.Unlock()

	a.status.LastTrigger = trigger
	a.status.LastError = err.Error()
	a.status.Failed++
}

// Status returns a snapshot of the publishing state (for health check)
func (a *Agent) Status() Status {
	a.statusMux.RLock()
	defer a.statusMux.RUnlock()

	status := a.status
	if status.Value != nil {
		value := *status.Value
		status.Value = &value
	}
	return status
}

// Calculator returns the threshold calculator with its effective configuration
func (a *Agent) Calculator() *threshold.Calculator {
	return a.calculator
}
