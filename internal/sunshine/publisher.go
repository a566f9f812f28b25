package sunshine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/saaga0h/jeeves-sunshine/internal/threshold"
	"github.com/saaga0h/jeeves-sunshine/pkg/mqtt"
	"github.com/saaga0h/jeeves-sunshine/pkg/redis"
)

// ThresholdState is the entity state document written for the threshold
// sensor. The host renders it as an illuminance sensor in lux.
type ThresholdState struct {
	EntityID    string             `json:"entity_id"`
	State       string             `json:"state"`
	Attributes  ThresholdAttribute `json:"attributes"`
	LastChanged string             `json:"last_changed"`
}

// ThresholdAttribute describes the threshold sensor
type ThresholdAttribute struct {
	FriendlyName      string  `json:"friendly_name,omitempty"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	DeviceClass       string  `json:"device_class"`
	StateClass        string  `json:"state_class"`
	Icon              string  `json:"icon"`
	Threshold         float64 `json:"threshold"`
	DayBrightness     int     `json:"day_brightness"`
	Daytime           bool    `json:"daytime"`
}

// BuildThresholdState renders a result as an entity state document
func BuildThresholdState(entityID, friendlyName string, result threshold.Result, at time.Time) ThresholdState {
	return ThresholdState{
		EntityID: entityID,
		State:    strconv.FormatFloat(result.Value, 'f', 1, 64),
		Attributes: ThresholdAttribute{
			FriendlyName:      friendlyName,
			UnitOfMeasurement: "lx",
			DeviceClass:       "illuminance",
			StateClass:        "measurement",
			Icon:              "mdi:brightness-7",
			Threshold:         result.Value,
			DayBrightness:     result.DayBrightness,
			Daytime:           result.Daytime,
		},
		LastChanged: at.Format(time.RFC3339),
	}
}

// publish writes the threshold to the host state store and announces it on
// the entity's retained state topic
func (a *Agent) publish(ctx context.Context, result threshold.Result, at time.Time) error {
	state := BuildThresholdState(a.cfg.Entity, a.cfg.FriendlyName, result, at)

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal threshold state: %w", err)
	}

	var errs []error

	// No TTL: the last good value must outlive failed ticks
	key := redis.StateKey(a.cfg.Entity)
	if err := a.redis.Set(ctx, key, string(payload), 0); err != nil {
		errs = append(errs, fmt.Errorf("failed to store threshold state: %w", err))
	}

	topic := mqtt.StateTopic(a.cfg.Entity)
	if err := a.mqtt.Publish(topic, 1, true, payload); err != nil {
		errs = append(errs, fmt.Errorf("failed to publish threshold state: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.logger.Debug("Published threshold state", "key", key, "topic", topic, "state", state.State)
	return nil
}
