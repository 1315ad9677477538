package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
)

// noop drops every message. It is used when no Google Cloud project is configured.
type noop struct{}

// NewNoop returns a client that logs and discards published messages.
func NewNoop() PubSubClient {
	return noop{}
}

func (noop) SendMessage(_ context.Context, topic EventType, data any) error {
	log.Debug("Dropping message, pubsub is not configured", "topic", topic, "data", data)
	return nil
}

func (noop) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noop) Close() error { return nil }
