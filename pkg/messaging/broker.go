package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope pushed to subscribers.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// UserChannel is the per-recipient relay channel.
func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:%s", userID)
}
