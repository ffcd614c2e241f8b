// Package dispatcher feeds accepted positions through the handler chain
// and forwards emitted events to the sink.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"event-svr/internal/cache"
	"event-svr/internal/handler"
	"event-svr/internal/model"
	"event-svr/internal/observability"
	"event-svr/internal/sink"
)

// Dispatcher runs each registered handler in registration order for every
// accepted position. Positions for different devices may be dispatched
// concurrently; positions for one device are serialized on a per-device
// lock because handler state updates are read-modify-write.
type Dispatcher struct {
	cache    cache.Cache
	handlers []handler.Handler
	sink     sink.Sink
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(c cache.Cache, s sink.Sink, logger *slog.Logger, handlers ...handler.Handler) *Dispatcher {
	return &Dispatcher{
		cache:    c,
		handlers: handlers,
		sink:     s,
		logger:   logger.With("component", "dispatcher"),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (d *Dispatcher) deviceLock(deviceID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[deviceID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[deviceID] = lock
	}
	return lock
}

// Dispatch runs the handler chain for one position and returns the events
// it produced, in handler-registration order. Stale or unknown-device
// positions are dropped without touching any handler state, which makes
// retransmissions and out-of-order delivery idempotent.
func (d *Dispatcher) Dispatch(ctx context.Context, p *model.Position) []*model.Event {
	defer observability.ObserveDispatchLatency(time.Now())

	lock := d.deviceLock(p.DeviceID)
	lock.Lock()
	defer lock.Unlock()

	if d.cache.Device(p.DeviceID) == nil {
		observability.PositionsRejected.WithLabelValues("unknown_device").Inc()
		d.logger.Debug("position for unknown device", "device", p.DeviceID)
		return nil
	}
	if !d.cache.IsLatest(p) {
		observability.PositionsRejected.WithLabelValues("stale").Inc()
		return nil
	}

	var events []*model.Event
	for _, h := range d.handlers {
		d.invoke(h, p, func(event *model.Event) {
			observability.EventsEmitted.WithLabelValues(event.Type).Inc()
			events = append(events, event)
		})
	}

	if d.sink != nil {
		for _, event := range events {
			if err := d.sink.Accept(ctx, event); err != nil {
				observability.SinkErrors.WithLabelValues(d.sink.Name()).Inc()
				d.logger.Warn("event delivery failed",
					"sink", d.sink.Name(), "type", event.Type, "device", event.DeviceID, "err", err)
			}
		}
	}

	d.cache.UpdatePosition(p)
	return events
}

// invoke isolates a handler fault: event detection is best-effort
// enrichment, so one faulting handler must not keep the rest of the chain
// from running.
func (d *Dispatcher) invoke(h handler.Handler, p *model.Position, emit handler.Callback) {
	defer func() {
		if r := recover(); r != nil {
			observability.HandlerFaults.WithLabelValues(h.Name()).Inc()
			d.logger.Error("handler fault",
				"handler", h.Name(), "device", p.DeviceID, "panic", r)
		}
	}()
	h.OnPosition(p, emit)
}
