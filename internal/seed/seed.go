// Package seed loads the sample listings shipped with the binary.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/listing"
)

//go:embed listings.yaml
var bundled []byte

// Store is the part of a listing store the seeder needs
type Store interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, l *domain.Listing) (string, error)
}

// Samples returns the embedded sample listings
func Samples() ([]domain.ListingFields, error) {
	return Parse(bundled)
}

// Decode reads a YAML list of listings from r
func Decode(r io.Reader) ([]domain.ListingFields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed data: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of listings. Every entry is normalized and
// validated the same way form input is.
func Parse(data []byte) ([]domain.ListingFields, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	out := make([]domain.ListingFields, 0, len(raw))
	for i, entry := range raw {
		fields := listing.Normalize(entry)
		if res := listing.Validate(fields); !res.Valid() {
			return nil, fmt.Errorf("seed entry %d (%q): %w", i, fields.Title, &listing.ValidationError{Result: res})
		}
		out = append(out, fields)
	}
	return out, nil
}

// Run replaces every stored listing with samples and returns how many were
// inserted. Entries without an image get placeholder.
func Run(ctx context.Context, store Store, samples []domain.ListingFields, placeholder string) (int, error) {
	removed, err := store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear listings: %w", err)
	}
	slog.Info("cleared listings", "removed", removed)

	for i, fields := range samples {
		l := &domain.Listing{}
		l.Apply(listing.ApplyDefaults(fields, placeholder))
		if _, err := store.Create(ctx, l); err != nil {
			return i, fmt.Errorf("insert %q: %w", fields.Title, err)
		}
	}
	return len(samples), nil
}
