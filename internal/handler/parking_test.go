package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-svr/internal/attribute"
	"event-svr/internal/model"
)

func parkingConfig() map[string]any {
	return map[string]any{
		attribute.KeyParkingModeEnabled.Name:    true,
		attribute.KeyParkingSpeedThreshold.Name: 5.0,
		attribute.KeyParkingTimeThreshold.Name:  time.Minute,
	}
}

func TestParkingUnauthorizedMovement(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))

	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 20, map[string]any{model.AttrMotion: true}), emit)
	require.Len(t, *events, 1)

	event := (*events)[0]
	assert.Equal(t, model.TypeParkingModeAlert, event.Type)
	assert.Equal(t, 0.0, event.Attributes["previousSpeed"])
	assert.Equal(t, 20.0, event.Attributes["currentSpeed"])
	assert.Equal(t, 20.0, event.Attributes["speedDifference"])
	assert.Equal(t, int64(10000), event.Attributes["timeDifference"])
	assert.Equal(t, "Unauthorized movement detected while in parking mode", event.Attributes["message"])
}

func TestParkingGradualDriftNoAlert(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))

	// Same speed jump but two minutes apart: not sudden.
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(2*time.Minute), 20, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events)
}

func TestParkingTimeThresholdBoundaryIsExclusive(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(time.Minute), 20, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events, "timeDifference == timeThreshold must not emit")

	c, r = testSetup(t, parkingConfig())
	h = NewParkingMode(c, r)
	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))
	emit, events = collector()
	h.OnPosition(pos(2, base.Add(time.Minute-time.Millisecond), 20, map[string]any{model.AttrMotion: true}), emit)
	assert.Len(t, *events, 1, "timeThreshold - 1ms must emit")
}

func TestParkingSpeedDifferenceMustExceedThreshold(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	// Parked at 2 km/h, now 7 km/h: not parked anymore, but the jump is
	// exactly the threshold, which is not enough.
	c.UpdatePosition(pos(1, base, 2, map[string]any{model.AttrMotion: false}))
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 7, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events)
}

func TestParkingAlarmPassthrough(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	// No previous position at all and the device is not parked: the
	// device's own alarm still wins.
	emit, events := collector()
	h.OnPosition(pos(1, base, 80, map[string]any{
		model.AttrMotion: true,
		model.AttrAlarm:  model.AlarmParking,
	}), emit)
	require.Len(t, *events, 1)

	event := (*events)[0]
	assert.Equal(t, model.TypeParkingModeAlert, event.Type)
	assert.Equal(t, model.AlarmParking, event.Attributes[model.AttrAlarm])
	assert.Equal(t, "Parking mode alert detected", event.Attributes["message"])
}

func TestParkingFirstPositionNoEvent(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	emit, events := collector()
	h.OnPosition(pos(1, base, 20, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events)
}

func TestParkingDisabledByDefault(t *testing.T) {
	c, r := testSetup(t, nil)
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 20, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events)
}

func TestParkingIgnitionWhileParked(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{
		model.AttrMotion:   false,
		model.AttrIgnition: false,
	}))

	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 0, map[string]any{
		model.AttrMotion:   false,
		model.AttrIgnition: true,
	}), emit)
	require.Len(t, *events, 1)

	event := (*events)[0]
	assert.Equal(t, model.TypeParkingModeAlert, event.Type)
	assert.Equal(t, true, event.Attributes["ignitionChange"])
	assert.Equal(t, false, event.Attributes["previousIgnition"])
	assert.Equal(t, true, event.Attributes["currentIgnition"])
}

func TestParkingDoorChangeWhileParked(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{
		model.AttrMotion: false,
		model.AttrDoor:   false,
	}))

	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 0, map[string]any{
		model.AttrMotion: false,
		model.AttrDoor:   true,
	}), emit)
	require.Len(t, *events, 1)

	event := (*events)[0]
	assert.Equal(t, true, event.Attributes["doorChange"])
	assert.Equal(t, false, event.Attributes["previousDoor"])
	assert.Equal(t, true, event.Attributes["currentDoor"])
}

func TestParkingMovementAndIgnitionBothEmit(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	c.UpdatePosition(pos(1, base, 0, map[string]any{
		model.AttrMotion:   false,
		model.AttrIgnition: false,
	}))

	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 20, map[string]any{
		model.AttrMotion:   true,
		model.AttrIgnition: true,
	}), emit)
	require.Len(t, *events, 2)
	assert.Equal(t, 20.0, (*events)[0].Attributes["speedDifference"])
	assert.Equal(t, true, (*events)[1].Attributes["ignitionChange"])
}

func TestParkingNotParkedBeforeNoAlert(t *testing.T) {
	c, r := testSetup(t, parkingConfig())
	h := NewParkingMode(c, r)

	// Was already moving: speeding up further is not a parking event.
	c.UpdatePosition(pos(1, base, 30, map[string]any{model.AttrMotion: true}))
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(10*time.Second), 60, map[string]any{model.AttrMotion: true}), emit)
	assert.Empty(t, *events)
}

func TestParkingZeroThresholdsNoTolerance(t *testing.T) {
	c, r := testSetup(t, map[string]any{
		attribute.KeyParkingModeEnabled.Name:    true,
		attribute.KeyParkingSpeedThreshold.Name: 0.0,
		attribute.KeyParkingTimeThreshold.Name:  time.Minute,
	})
	h := NewParkingMode(c, r)

	// With a zero speed threshold, any positive speed ends the parked
	// state and any positive speed jump trips the alert.
	c.UpdatePosition(pos(1, base, 0, map[string]any{model.AttrMotion: false}))
	emit, events := collector()
	h.OnPosition(pos(2, base.Add(time.Second), 1, map[string]any{model.AttrMotion: false}), emit)
	require.Len(t, *events, 1)
	assert.Equal(t, 1.0, (*events)[0].Attributes["speedDifference"])
}
