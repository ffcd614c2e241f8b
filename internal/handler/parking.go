package handler

import (
	"strings"

	"event-svr/internal/attribute"
	"event-svr/internal/cache"
	"event-svr/internal/model"
)

// ParkingMode detects unauthorized activity while a device is parked.
// Parked means the motion flag is off and speed is at or under the
// resolved speed threshold. All state is derived from the current and
// previous position; nothing is stored between evaluations.
type ParkingMode struct {
	cache    cache.Cache
	resolver attribute.Resolver
}

func NewParkingMode(c cache.Cache, r attribute.Resolver) *ParkingMode {
	return &ParkingMode{cache: c, resolver: r}
}

func (h *ParkingMode) Name() string { return "parkingMode" }

func (h *ParkingMode) OnPosition(p *model.Position, emit Callback) {
	deviceID := p.DeviceID
	if !p.Valid && !h.resolver.Bool(attribute.KeyProcessInvalidPositions, deviceID) {
		return
	}
	if !h.resolver.Bool(attribute.KeyParkingModeEnabled, deviceID) {
		return
	}

	// The device's own parking alarm is authoritative: it bypasses the
	// parked-state hysteresis and does not need a previous position.
	if alarm := p.String(model.AttrAlarm); strings.Contains(alarm, model.AlarmParking) {
		event := model.NewEvent(model.TypeParkingModeAlert, p)
		event.Set(model.AttrAlarm, model.AlarmParking)
		event.Set("message", "Parking mode alert detected")
		emit(event)
		return
	}

	last := h.cache.LastPosition(deviceID)
	if last == nil {
		return
	}

	speedThreshold := h.resolver.Float(attribute.KeyParkingSpeedThreshold, deviceID)
	currentlyParked := !p.Bool(model.AttrMotion) && p.Speed <= speedThreshold
	wasParked := !last.Bool(model.AttrMotion) && last.Speed <= speedThreshold

	if wasParked && !currentlyParked {
		speedDifference := p.Speed - last.Speed
		timeDifference := p.FixTime.Sub(last.FixTime)
		timeThreshold := h.resolver.Duration(attribute.KeyParkingTimeThreshold, deviceID)
		// A sudden jump in a short window, not a gradual drift. Both
		// bounds are strict, so zero thresholds mean zero tolerance.
		if speedDifference > speedThreshold && timeDifference < timeThreshold {
			event := model.NewEvent(model.TypeParkingModeAlert, p)
			event.Set("previousSpeed", last.Speed)
			event.Set("currentSpeed", p.Speed)
			event.Set("speedDifference", speedDifference)
			event.Set("timeDifference", timeDifference.Milliseconds())
			event.Set("message", "Unauthorized movement detected while in parking mode")
			emit(event)
		}
	}

	if p.Has(model.AttrIgnition) && last.Has(model.AttrIgnition) {
		currentIgnition := p.Bool(model.AttrIgnition)
		previousIgnition := last.Bool(model.AttrIgnition)
		if !previousIgnition && currentIgnition && wasParked {
			event := model.NewEvent(model.TypeParkingModeAlert, p)
			event.Set("ignitionChange", true)
			event.Set("previousIgnition", previousIgnition)
			event.Set("currentIgnition", currentIgnition)
			event.Set("message", "Ignition activated while in parking mode")
			emit(event)
		}
	}

	if p.Has(model.AttrDoor) && last.Has(model.AttrDoor) {
		currentDoor := p.Attributes[model.AttrDoor]
		previousDoor := last.Attributes[model.AttrDoor]
		if currentDoor != nil && currentDoor != previousDoor && wasParked {
			event := model.NewEvent(model.TypeParkingModeAlert, p)
			event.Set("doorChange", true)
			event.Set("previousDoor", previousDoor)
			event.Set("currentDoor", currentDoor)
			event.Set("message", "Door activity detected while in parking mode")
			emit(event)
		}
	}
}
