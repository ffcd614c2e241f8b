package sink

import (
	"context"

	"event-svr/internal/link"
	"event-svr/internal/model"
)

// Link forwards events over the NDJSON proxy link.
type Link struct{}

func NewLink() *Link { return &Link{} }

func (s *Link) Name() string { return "link" }

func (s *Link) Accept(_ context.Context, event *model.Event) error {
	return link.SendEvent(event)
}
