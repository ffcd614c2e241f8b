package attribute

import "time"

// Key names a resolvable configuration value and carries its compiled-in
// default. Every key the core queries has a default, so resolution can
// never fail at per-position time.
type Key struct {
	Name    string
	Default any
}

var (
	// KeyIgnitionDebounceTime is the minimum fix-time gap between two
	// ignition events landing on the same state.
	KeyIgnitionDebounceTime = Key{"event.ignition.debounceTime", 30 * time.Second}

	// KeyParkingModeEnabled turns the parking mode handler on per device.
	KeyParkingModeEnabled = Key{"event.parkingMode.enabled", false}

	// KeyParkingSpeedThreshold is the km/h bound below which a device with
	// no motion flag counts as parked, and the minimum sudden speed jump
	// for an unauthorized-movement alert.
	KeyParkingSpeedThreshold = Key{"event.parkingMode.speedThreshold", 5.0}

	// KeyParkingTimeThreshold caps the window in which a speed jump still
	// counts as sudden. Exclusive bound.
	KeyParkingTimeThreshold = Key{"event.parkingMode.timeThreshold", time.Minute}

	// KeyProcessInvalidPositions lets handlers consume positions without a
	// valid fix.
	KeyProcessInvalidPositions = Key{"event.motion.processInvalidPositions", false}

	// KeyOverspeedLimit is the km/h limit for overspeed events; 0 disables.
	KeyOverspeedLimit = Key{"event.overspeed.limit", 0.0}
)
