package config

import (
	"os"

	"event-svr/internal/attribute"
)

type Config struct {
	TCPPort     string
	MetricsPort string
	RedisAddr   string

	MQTTBroker     string
	MQTTClientID   string
	PositionsTopic string
	EventsTopic    string

	PostgresURL string
	LinkAddr    string
	DevicesFile string

	// Server-level attribute defaults, raw env strings; the resolver
	// coerces them.
	ignitionDebounce        string
	parkingModeEnabled      string
	parkingSpeedThreshold   string
	parkingTimeThreshold    string
	processInvalidPositions string
	overspeedLimit          string
}

func Load() Config {
	return Config{
		TCPPort:     getEnv("TCP_PORT", "8001"),
		MetricsPort: getEnv("METRICS_PORT", "9000"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		MQTTBroker:     getEnv("MQTT_BROKER", ""),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", "event-svr"),
		PositionsTopic: getEnv("POSITIONS_TOPIC", "positions/#"),
		EventsTopic:    getEnv("EVENTS_TOPIC", "events/detected"),

		PostgresURL: getEnv("POSTGRES_URL", ""),
		LinkAddr:    getEnv("PROXY_ADDR", ""),
		DevicesFile: getEnv("DEVICES_FILE", ""),

		ignitionDebounce:        getEnv("IGNITION_DEBOUNCE", ""),
		parkingModeEnabled:      getEnv("PARKING_MODE_ENABLED", ""),
		parkingSpeedThreshold:   getEnv("PARKING_SPEED_THRESHOLD", ""),
		parkingTimeThreshold:    getEnv("PARKING_TIME_THRESHOLD", ""),
		processInvalidPositions: getEnv("PROCESS_INVALID_POSITIONS", ""),
		overspeedLimit:          getEnv("OVERSPEED_LIMIT", ""),
	}
}

// ServerAttributes turns the configured defaults into the resolver's
// server layer. Unset values are omitted so the compiled-in defaults
// apply.
func (c Config) ServerAttributes() map[string]any {
	attrs := make(map[string]any)
	put := func(key attribute.Key, val string) {
		if val != "" {
			attrs[key.Name] = val
		}
	}
	put(attribute.KeyIgnitionDebounceTime, c.ignitionDebounce)
	put(attribute.KeyParkingModeEnabled, c.parkingModeEnabled)
	put(attribute.KeyParkingSpeedThreshold, c.parkingSpeedThreshold)
	put(attribute.KeyParkingTimeThreshold, c.parkingTimeThreshold)
	put(attribute.KeyProcessInvalidPositions, c.processInvalidPositions)
	put(attribute.KeyOverspeedLimit, c.overspeedLimit)
	return attrs
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
