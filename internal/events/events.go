// Package events publishes listing lifecycle notifications to a message
// broker. Consumers are outside this service.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to a listing
type Type string

const (
	ListingCreated Type = "listing.created"
	ListingUpdated Type = "listing.updated"
	ListingDeleted Type = "listing.deleted"
)

// ListingEvent is the message body sent to the broker
type ListingEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	ListingID  string    `json:"listing_id"`
	Title      string    `json:"title,omitempty"`
	Price      float64   `json:"price,omitempty"`
	Country    string    `json:"country,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewListingEvent stamps a new event with an id and the current time
func NewListingEvent(t Type, listingID string) *ListingEvent {
	return &ListingEvent{
		ID:         uuid.New(),
		Type:       t,
		ListingID:  listingID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher sends listing events to a broker
type Publisher interface {
	Publish(ctx context.Context, event *ListingEvent) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *ListingEvent) error { return nil }
func (Noop) Close() error                                 { return nil }
