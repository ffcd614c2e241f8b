// Package cache provides the device/last-position cache the event core
// reads from. Two implementations: in-memory (tests, embedded use) and
// Redis-backed (shared across processes).
package cache

import (
	"sync"

	"event-svr/internal/model"
)

// Cache is the core's view of known devices and their latest accepted
// position. Lookups are in-memory and non-blocking at this layer.
type Cache interface {
	Device(id int64) *model.Device
	Group(id int64) *model.Group
	LastPosition(deviceID int64) *model.Position

	// IsLatest reports whether p is the newest position for its device.
	// Equal fix times keep the higher server-assigned ID; an exact
	// duplicate is never latest.
	IsLatest(p *model.Position) bool

	// UpdatePosition records p as the device's latest, after dispatch.
	UpdatePosition(p *model.Position)
}

// isNewer is the shared ordering rule for positions of one device.
func isNewer(p, last *model.Position) bool {
	if last == nil {
		return true
	}
	if p.FixTime.After(last.FixTime) {
		return true
	}
	return p.FixTime.Equal(last.FixTime) && p.ID > last.ID
}

// Memory is the in-process Cache. Devices and groups are seeded by the
// caller; positions are tracked per device.
type Memory struct {
	mu        sync.RWMutex
	devices   map[int64]*model.Device
	groups    map[int64]*model.Group
	positions map[int64]*model.Position
}

func NewMemory() *Memory {
	return &Memory{
		devices:   make(map[int64]*model.Device),
		groups:    make(map[int64]*model.Group),
		positions: make(map[int64]*model.Position),
	}
}

func (c *Memory) PutDevice(d *model.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices[d.ID] = d
}

func (c *Memory) PutGroup(g *model.Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[g.ID] = g
}

func (c *Memory) Device(id int64) *model.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices[id]
}

func (c *Memory) Group(id int64) *model.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups[id]
}

func (c *Memory) LastPosition(deviceID int64) *model.Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.positions[deviceID]
}

func (c *Memory) IsLatest(p *model.Position) bool {
	return isNewer(p, c.LastPosition(p.DeviceID))
}

func (c *Memory) UpdatePosition(p *model.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[p.DeviceID] = p
}
