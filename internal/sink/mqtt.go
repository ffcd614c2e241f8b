package sink

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"event-svr/internal/model"
)

// MQTT publishes each event as JSON to one topic. The client is shared
// with the position source.
type MQTT struct {
	client mqtt.Client
	topic  string
}

func NewMQTT(client mqtt.Client, topic string) *MQTT {
	return &MQTT{client: client, topic: topic}
}

func (s *MQTT) Name() string { return "mqtt" }

func (s *MQTT) Accept(_ context.Context, event *model.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	token := s.client.Publish(s.topic, 0, false, b)
	token.Wait()
	return token.Error()
}
