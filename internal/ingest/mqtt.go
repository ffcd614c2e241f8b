// Package ingest feeds decoded positions into the dispatcher. Protocol
// decoding happens upstream; payloads here are already position JSON.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"event-svr/internal/model"
	"event-svr/internal/observability"
)

// PositionFunc hands one normalized position to the dispatch path.
type PositionFunc func(ctx context.Context, p *model.Position)

const dispatchTimeout = 5 * time.Second

// Subscribe attaches the position pipeline to an MQTT topic. A bad
// payload is logged and dropped; the subscription stays up.
func Subscribe(client mqtt.Client, topic string, dispatch PositionFunc, logger *slog.Logger) error {
	log := logger.With("component", "ingest")

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var p model.Position
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			observability.PositionsRejected.WithLabelValues("bad_payload").Inc()
			log.Warn("position rejected", "topic", msg.Topic(), "err", err)
			return
		}
		observability.PositionsReceived.WithLabelValues("mqtt").Inc()
		Normalize(&p)

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		dispatch(ctx, &p)
	}

	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Info("subscribed", "topic", topic)
	return nil
}
