// Package listing holds the rules for creating and changing listings:
// input normalization, validation and the service that persists them.
package listing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/events"
	"github.com/jayramgit94/AirBnb-DB-project/internal/media"
)

// FeaturedLimit is how many listings the landing page shows
const FeaturedLimit = 6

// Repository persists listings
type Repository interface {
	// List returns listings newest first; limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]*domain.Listing, error)
	// Get returns domain.ErrListingNotFound when the id does not exist.
	Get(ctx context.Context, id string) (*domain.Listing, error)
	// Create assigns the id and timestamps and returns the new id.
	Create(ctx context.Context, l *domain.Listing) (string, error)
	// Update replaces the editable fields; domain.ErrListingNotFound when absent.
	Update(ctx context.Context, id string, f domain.ListingFields) (*domain.Listing, error)
	// Delete succeeds when the listing is already gone.
	Delete(ctx context.Context, id string) error
}

// Service applies listing rules on top of a Repository
type Service struct {
	repo        Repository
	publisher   events.Publisher
	photos      media.Store
	placeholder string
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sends lifecycle events after each successful write
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithPhotoStore enables photo uploads
func WithPhotoStore(store media.Store) Option {
	return func(s *Service) { s.photos = store }
}

// WithPlaceholderImage overrides DefaultPlaceholderImage
func WithPlaceholderImage(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.placeholder = url
		}
	}
}

// NewService creates a new listing service
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		publisher:   events.Noop{},
		placeholder: DefaultPlaceholderImage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Featured returns the most recent listings for the landing page
func (s *Service) Featured(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.List(ctx, FeaturedLimit)
}

// All returns every listing, newest first
func (s *Service) All(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.List(ctx, 0)
}

// Get returns a single listing
func (s *Service) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.Get(ctx, id)
}

// Placeholder is the image used for listings saved without one
func (s *Service) Placeholder() string {
	return s.placeholder
}

// PhotoUploadsEnabled reports whether Create/Update accept a photo
func (s *Service) PhotoUploadsEnabled() bool {
	return s.photos != nil
}

// Prepare normalizes and validates raw input without touching storage
func (s *Service) Prepare(raw map[string]any) (domain.ListingFields, error) {
	fields := Normalize(raw)
	if res := Validate(fields); !res.Valid() {
		return fields, &ValidationError{Result: res}
	}
	return fields, nil
}

// Create validates raw input and stores a new listing. When photo is set and
// a photo store is configured, the uploaded photo replaces the image URL.
func (s *Service) Create(ctx context.Context, raw map[string]any, photo *media.File) (*domain.Listing, error) {
	fields, err := s.Prepare(raw)
	if err != nil {
		return nil, err
	}
	if fields, err = s.attachPhoto(ctx, fields, photo); err != nil {
		return nil, err
	}

	l := &domain.Listing{}
	l.Apply(ApplyDefaults(fields, s.placeholder))

	id, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	l.ID = id

	s.publish(ctx, events.ListingCreated, l)
	return l, nil
}

// Update validates raw input and replaces the editable fields of listing id
func (s *Service) Update(ctx context.Context, id string, raw map[string]any, photo *media.File) (*domain.Listing, error) {
	fields, err := s.Prepare(raw)
	if err != nil {
		return nil, err
	}
	if photo != nil && s.photos != nil {
		// no upload for a listing that is already gone
		if _, err := s.repo.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("update listing %s: %w", id, err)
		}
	}
	if fields, err = s.attachPhoto(ctx, fields, photo); err != nil {
		return nil, err
	}

	l, err := s.repo.Update(ctx, id, ApplyDefaults(fields, s.placeholder))
	if err != nil {
		return nil, fmt.Errorf("update listing %s: %w", id, err)
	}

	s.publish(ctx, events.ListingUpdated, l)
	return l, nil
}

// Delete removes a listing; deleting a missing listing is not an error
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	s.publish(ctx, events.ListingDeleted, &domain.Listing{ID: id})
	return nil
}

func (s *Service) attachPhoto(ctx context.Context, fields domain.ListingFields, photo *media.File) (domain.ListingFields, error) {
	if photo == nil || s.photos == nil {
		return fields, nil
	}
	url, err := s.photos.Put(ctx, photo)
	if err != nil {
		return fields, err
	}
	fields.Image = url
	return fields, nil
}

func (s *Service) publish(ctx context.Context, t events.Type, l *domain.Listing) {
	event := events.NewListingEvent(t, l.ID)
	event.Title = l.Title
	event.Price = l.Price
	event.Country = l.Country

	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish listing event",
			"type", t,
			"listing_id", l.ID,
			"error", err,
		)
	}
}
