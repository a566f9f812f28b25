package ephemeris

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// AttributeNextRising holds the next sunrise on the sun entity
	AttributeNextRising = "next_rising"
	// AttributeNextSetting holds the next sunset on the sun entity
	AttributeNextSetting = "next_setting"
)

var (
	// ErrMissingAttribute indicates the sun state lacks a required attribute
	ErrMissingAttribute = errors.New("missing sun attribute")

	// ErrInvalidTimestamp indicates a timestamp that is not ISO-8601
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// SunEvent carries the next sunrise and sunset relative to now. The two may
// fall on different calendar days.
type SunEvent struct {
	Sunrise time.Time
	Sunset  time.Time
}

// EntityState is the state document the host publishes for an entity
type EntityState struct {
	EntityID    string                 `json:"entity_id,omitempty"`
	State       string                 `json:"state"`
	Attributes  map[string]interface{} `json:"attributes"`
	LastChanged string                 `json:"last_changed,omitempty"`
}

// timestampLayouts are tried in order; the host emits the first one but
// hand-written states often use a space separator or omit the offset
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
}

// ParseTimestamp parses an ISO-8601 timestamp. Timestamps without an offset
// are read in the local zone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, candidate := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if candidate.naive {
			t, err = time.ParseInLocation(candidate.layout, s, time.Local)
		} else {
			t, err = time.Parse(candidate.layout, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ParseState decodes an entity state document
func ParseState(payload []byte) (*EntityState, error) {
	var state EntityState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to parse entity state: %w", err)
	}
	return &state, nil
}

// FromState extracts the next sunrise and sunset from a sun entity state
func FromState(state *EntityState) (SunEvent, error) {
	if state == nil {
		return SunEvent{}, fmt.Errorf("%w: no state", ErrMissingAttribute)
	}

	sunrise, err := timestampAttribute(state.Attributes, AttributeNextRising)
	if err != nil {
		return SunEvent{}, err
	}

	sunset, err := timestampAttribute(state.Attributes, AttributeNextSetting)
	if err != nil {
		return SunEvent{}, err
	}

	return SunEvent{Sunrise: sunrise, Sunset: sunset}, nil
}

// ParseSunEvent decodes a sun entity state and extracts its sun events
func ParseSunEvent(payload []byte) (SunEvent, error) {
	state, err := ParseState(payload)
	if err != nil {
		return SunEvent{}, err
	}
	return FromState(state)
}

func timestampAttribute(attributes map[string]interface{}, name string) (time.Time, error) {
	raw, ok := attributes[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
	}

	value, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is %T, not a string", ErrMissingAttribute, name, raw)
	}

	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("attribute %s: %w", name, err)
	}
	return t, nil
}
