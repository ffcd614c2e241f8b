package model

import "time"

// Canonical attribute keys carried in Position.Attributes.
const (
	AttrIgnition      = "ignition"
	AttrMotion        = "motion"
	AttrDoor          = "door"
	AttrAlarm         = "alarm"
	AttrOdometer      = "odometer"
	AttrTotalDistance = "totalDistance"
	AttrHours         = "hours"
)

// Alarm values (subset used by the event core).
const (
	AlarmParking = "parking"
)

// Position is one decoded telemetry sample. Speed is km/h.
// The core never mutates a Position after dispatch starts, except for
// derived attributes added before it reaches a sink.
type Position struct {
	ID       int64     `json:"id"`
	DeviceID int64     `json:"device_id"`
	FixTime  time.Time `json:"fix_time"`
	Valid    bool      `json:"valid"`

	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Speed     float64 `json:"spd"`
	Course    float64 `json:"crs"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

func (p *Position) Has(key string) bool {
	_, ok := p.Attributes[key]
	return ok
}

// Bool returns the attribute as a bool, false when absent or not boolean.
func (p *Position) Bool(key string) bool {
	v, _ := p.Attributes[key].(bool)
	return v
}

// String returns the attribute as a string, "" when absent or not a string.
func (p *Position) String(key string) string {
	v, _ := p.Attributes[key].(string)
	return v
}

// Float returns the attribute as a float64, coercing integer types.
func (p *Position) Float(key string) float64 {
	switch v := p.Attributes[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// Set adds a derived attribute, allocating the map lazily.
func (p *Position) Set(key string, value any) {
	if p.Attributes == nil {
		p.Attributes = make(map[string]any)
	}
	p.Attributes[key] = value
}
