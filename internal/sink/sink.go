// Package sink holds the delivery targets for emitted events. Delivery is
// fire-and-forget from the core's point of view: a sink error is logged
// and counted, never fed back into dispatch.
package sink

import (
	"context"
	"log/slog"

	"event-svr/internal/model"
	"event-svr/internal/observability"
)

// Sink accepts an emitted event. Ownership of the event transfers to the
// sink on Accept.
type Sink interface {
	Name() string
	Accept(ctx context.Context, event *model.Event) error
}

// Log writes every event to the structured log. Useful on its own in dev
// and as a tap next to real sinks.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "sink")}
}

func (s *Log) Name() string { return "log" }

func (s *Log) Accept(_ context.Context, event *model.Event) error {
	s.logger.Info("event",
		"type", event.Type,
		"device", event.DeviceID,
		"time", event.EventTime,
		"attributes", event.Attributes,
	)
	return nil
}

// Multi fans one event out to every configured sink. A failing sink is
// reported and skipped; the others still get the event.
type Multi struct {
	sinks  []Sink
	logger *slog.Logger
}

func NewMulti(logger *slog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, logger: logger.With("component", "sink")}
}

func (s *Multi) Name() string { return "multi" }

func (s *Multi) Accept(ctx context.Context, event *model.Event) error {
	for _, target := range s.sinks {
		if err := target.Accept(ctx, event); err != nil {
			observability.SinkErrors.WithLabelValues(target.Name()).Inc()
			s.logger.Warn("event delivery failed",
				"sink", target.Name(), "type", event.Type, "device", event.DeviceID, "err", err)
		}
	}
	return nil
}
