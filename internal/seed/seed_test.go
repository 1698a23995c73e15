package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/listing"
	"github.com/jayramgit94/AirBnb-DB-project/internal/seed"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/memory"
)

func TestSamplesAreValid(t *testing.T) {
	samples, err := seed.Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(samples) < listing.FeaturedLimit {
		t.Errorf("only %d samples, the home page shows %d", len(samples), listing.FeaturedLimit)
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero price", "- {title: A, description: B, price: 0, location: C, country: D}"},
		{"missing country", "- {title: A, description: B, price: 10, location: C}"},
		{"not a list", "title: A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := seed.Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}

func TestDecodeNormalizes(t *testing.T) {
	got, err := seed.Decode(strings.NewReader(`- {title: "  Cabin ", description: Lake, price: "120", location: Manali, country: India}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Cabin" || got[0].Price != 120 {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestRunReplacesListings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewListingStore()
	if _, err := store.Create(ctx, &domain.Listing{Title: "old"}); err != nil {
		t.Fatal(err)
	}

	samples := []domain.ListingFields{
		{Title: "One", Description: "d", Price: 10, Location: "l", Country: "c"},
		{Title: "Two", Description: "d", Image: "https://example.com/two.jpg", Price: 20, Location: "l", Country: "c"},
	}
	n, err := seed.Run(ctx, store, samples, "https://example.com/placeholder.jpg")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Run() = %d, want 2", n)
	}

	all, _ := store.List(ctx, 0)
	if len(all) != 2 {
		t.Fatalf("stored %d listings, want 2", len(all))
	}
	for _, l := range all {
		if l.Title == "One" && l.Image != "https://example.com/placeholder.jpg" {
			t.Errorf("One.Image = %q, want placeholder", l.Image)
		}
	}
}

type failingStore struct{ memory.ListingStore }

func (*failingStore) DeleteAll(context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRunStopsWhenClearFails(t *testing.T) {
	if _, err := seed.Run(context.Background(), &failingStore{}, nil, ""); err == nil {
		t.Error("Run() succeeded, want error")
	}
}
