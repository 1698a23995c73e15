// Package rabbitmq publishes listing events to a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jayramgit94/AirBnb-DB-project/internal/events"
)

// Publisher sends listing events over a Connection
type Publisher struct {
	conn *Connection
}

// NewPublisher creates a new publisher
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish implements events.Publisher
func (p *Publisher) Publish(ctx context.Context, event *events.ListingEvent) error {
	if err := p.conn.PublishJSON(ctx, QueueName, event); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	slog.Debug("published listing event",
		"event_id", event.ID,
		"type", event.Type,
		"listing_id", event.ListingID,
	)
	return nil
}

// Close closes the underlying connection
func (p *Publisher) Close() error {
	return p.conn.Close()
}
