package attribute

import (
	"strconv"
	"time"

	"event-svr/internal/model"
)

// EntityProvider supplies the device and group objects the cascade walks.
// Satisfied by the cache.
type EntityProvider interface {
	Device(id int64) *model.Device
	Group(id int64) *model.Group
}

// Resolver resolves a configuration value for a device. Deterministic and
// side-effect-free; safe for unlimited concurrent readers.
type Resolver interface {
	Bool(key Key, deviceID int64) bool
	Float(key Key, deviceID int64) float64
	Duration(key Key, deviceID int64) time.Duration
}

// groups can nest; cap the walk so a cycle in group config cannot hang us
const maxGroupDepth = 8

// CascadingResolver resolves device-level override, then the group chain,
// then server-level defaults, then the key's compiled-in default.
type CascadingResolver struct {
	entities EntityProvider
	server   map[string]any
}

func NewResolver(entities EntityProvider, server map[string]any) *CascadingResolver {
	if server == nil {
		server = make(map[string]any)
	}
	return &CascadingResolver{entities: entities, server: server}
}

func (r *CascadingResolver) lookup(key Key, deviceID int64) any {
	if device := r.entities.Device(deviceID); device != nil {
		if v, ok := device.Attributes[key.Name]; ok {
			return v
		}
		groupID := device.GroupID
		for depth := 0; groupID != 0 && depth < maxGroupDepth; depth++ {
			group := r.entities.Group(groupID)
			if group == nil {
				break
			}
			if v, ok := group.Attributes[key.Name]; ok {
				return v
			}
			groupID = group.GroupID
		}
	}
	if v, ok := r.server[key.Name]; ok {
		return v
	}
	return key.Default
}

func (r *CascadingResolver) Bool(key Key, deviceID int64) bool {
	switch v := r.lookup(key, deviceID).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func (r *CascadingResolver) Float(key Key, deviceID int64) float64 {
	switch v := r.lookup(key, deviceID).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Duration accepts time.Duration values, numeric milliseconds, or
// time.ParseDuration strings ("30s").
func (r *CascadingResolver) Duration(key Key, deviceID int64) time.Duration {
	switch v := r.lookup(key, deviceID).(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Millisecond
	case int64:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v) * time.Millisecond
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 0
}
