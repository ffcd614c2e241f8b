// Package handler contains the event rule evaluators. Each handler gets
// every accepted position for a device, in fix-time order, and emits zero
// or more events through the callback. Handlers are independent: one
// handler's output never feeds another.
package handler

import "event-svr/internal/model"

// Callback receives each event the moment a handler detects it.
type Callback func(*model.Event)

// Handler is the single capability every rule evaluator implements.
// The dispatcher has already verified the device exists and the position
// is the latest for it; handlers only apply their own rules.
//
// OnPosition must not be invoked concurrently for one device.
type Handler interface {
	Name() string
	OnPosition(p *model.Position, emit Callback)
}
