package handler

import (
	"event-svr/internal/attribute"
	"event-svr/internal/cache"
	"event-svr/internal/model"
	"event-svr/internal/state"
)

// MotionRecord tracks an active overspeed excursion per device.
type MotionRecord struct {
	Overspeed bool
}

// Motion emits moving/stopped events on motion-flag transitions against
// the previous position, and one overspeed event per excursion above the
// resolved speed limit. A limit of 0 disables the overspeed check.
type Motion struct {
	cache    cache.Cache
	resolver attribute.Resolver
	states   *state.Store[MotionRecord]
}

func NewMotion(c cache.Cache, r attribute.Resolver) *Motion {
	return &Motion{
		cache:    c,
		resolver: r,
		states:   state.NewStore[MotionRecord](),
	}
}

func (h *Motion) Name() string { return "motion" }

func (h *Motion) OnPosition(p *model.Position, emit Callback) {
	deviceID := p.DeviceID
	if !p.Valid && !h.resolver.Bool(attribute.KeyProcessInvalidPositions, deviceID) {
		return
	}

	last := h.cache.LastPosition(deviceID)

	if p.Has(model.AttrMotion) && last != nil && last.Has(model.AttrMotion) {
		motion := p.Bool(model.AttrMotion)
		if motion != last.Bool(model.AttrMotion) {
			if motion {
				emit(model.NewEvent(model.TypeDeviceMoving, p))
			} else {
				emit(model.NewEvent(model.TypeDeviceStopped, p))
			}
		}
	}

	limit := h.resolver.Float(attribute.KeyOverspeedLimit, deviceID)
	if limit <= 0 {
		return
	}
	rec, _ := h.states.Get(deviceID)
	if p.Speed > limit {
		if !rec.Overspeed {
			h.states.Put(deviceID, MotionRecord{Overspeed: true})
			event := model.NewEvent(model.TypeDeviceOverspeed, p)
			event.Set("speed", p.Speed)
			event.Set("speedLimit", limit)
			emit(event)
		}
	} else if rec.Overspeed {
		// back at or under the limit, rearm
		h.states.Put(deviceID, MotionRecord{Overspeed: false})
	}
}
