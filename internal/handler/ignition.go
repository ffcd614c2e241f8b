package handler

import (
	"time"

	"event-svr/internal/attribute"
	"event-svr/internal/cache"
	"event-svr/internal/model"
	"event-svr/internal/state"
)

// IgnitionRecord remembers the last emitted ignition event per device.
type IgnitionRecord struct {
	EventTime time.Time
	Ignition  bool
}

// Ignition detects ignition on/off transitions with debouncing. Rapid
// toggles that land back on the last emitted state within the debounce
// window are treated as contact chatter and suppressed; a toggle onto a
// different state always emits.
type Ignition struct {
	cache    cache.Cache
	resolver attribute.Resolver
	states   *state.Store[IgnitionRecord]
}

func NewIgnition(c cache.Cache, r attribute.Resolver) *Ignition {
	return &Ignition{
		cache:    c,
		resolver: r,
		states:   state.NewStore[IgnitionRecord](),
	}
}

func (h *Ignition) Name() string { return "ignition" }

func (h *Ignition) OnPosition(p *model.Position, emit Callback) {
	deviceID := p.DeviceID
	if !p.Valid && !h.resolver.Bool(attribute.KeyProcessInvalidPositions, deviceID) {
		return
	}
	if !p.Has(model.AttrIgnition) {
		return
	}

	last := h.cache.LastPosition(deviceID)
	if last == nil || !last.Has(model.AttrIgnition) {
		return
	}

	ignition := p.Bool(model.AttrIgnition)
	oldIgnition := last.Bool(model.AttrIgnition)

	if ignition == oldIgnition {
		// No transition. If the stable state matches the last emitted
		// one, slide the debounce window forward so a later flicker
		// back is still measured against fresh data.
		if rec, ok := h.states.Get(deviceID); ok && rec.Ignition == ignition {
			rec.EventTime = p.FixTime
			h.states.Put(deviceID, rec)
		}
		return
	}

	debounce := h.resolver.Duration(attribute.KeyIgnitionDebounceTime, deviceID)
	if rec, ok := h.states.Get(deviceID); ok {
		// Within the window, only a toggle back onto the last emitted
		// state is chatter. Debounce on fix time, not processing time,
		// so backfilled data behaves the same.
		if p.FixTime.Sub(rec.EventTime) < debounce && ignition == rec.Ignition {
			return
		}
	}

	h.states.Put(deviceID, IgnitionRecord{EventTime: p.FixTime, Ignition: ignition})
	if ignition {
		emit(model.NewEvent(model.TypeIgnitionOn, p))
	} else {
		emit(model.NewEvent(model.TypeIgnitionOff, p))
	}
}
