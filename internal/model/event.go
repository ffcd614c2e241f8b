package model

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the core.
const (
	TypeIgnitionOn       = "ignitionOn"
	TypeIgnitionOff      = "ignitionOff"
	TypeParkingModeAlert = "parkingModeAlert"
	TypeDeviceMoving     = "deviceMoving"
	TypeDeviceStopped    = "deviceStopped"
	TypeDeviceOverspeed  = "deviceOverspeed"
)

// Event is the output value object. Immutable once emitted; ownership
// transfers to the sink.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DeviceID   int64     `json:"device_id"`
	PositionID int64     `json:"position_id,omitempty"`
	EventTime  time.Time `json:"event_time"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

// NewEvent builds an event anchored to the position that caused it.
// EventTime is the position's fix time so replayed data keeps its timeline.
func NewEvent(eventType string, p *Position) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		DeviceID:   p.DeviceID,
		PositionID: p.ID,
		EventTime:  p.FixTime,
	}
}

// Set records a diagnostic attribute on the event.
func (e *Event) Set(key string, value any) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	e.Attributes[key] = value
}
