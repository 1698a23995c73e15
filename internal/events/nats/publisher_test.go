package nats

import (
	"testing"

	"github.com/jayramgit94/AirBnb-DB-project/internal/events"
)

func TestSubject(t *testing.T) {
	tests := map[events.Type]string{
		events.ListingCreated: "wanderlust.listing.created",
		events.ListingUpdated: "wanderlust.listing.updated",
		events.ListingDeleted: "wanderlust.listing.deleted",
	}
	for typ, want := range tests {
		if got := Subject(typ); got != want {
			t.Errorf("Subject(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestNewPublisher_Unreachable(t *testing.T) {
	if _, err := NewPublisher("nats://127.0.0.1:1"); err == nil {
		t.Error("expected error connecting to a closed port")
	}
}
