package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

type listingDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Image       string               `bson:"image"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Country     string               `bson:"country"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d *listingDocument) toDomain() *domain.Listing {
	reviews := make([]string, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		reviews = append(reviews, r.Hex())
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		Reviews:     reviews,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ListingStore persists listings in the listings collection
type ListingStore struct {
	collection *mongo.Collection
	guard      *Guard
}

// NewListingStore creates a listing store; guard may be nil
func NewListingStore(db *DB, guard *Guard) *ListingStore {
	return &ListingStore{
		collection: db.Database().Collection(ListingsCollection),
		guard:      guard,
	}
}

// List returns listings newest first. ObjectIDs embed their creation time,
// so sorting on _id is creation order.
func (s *ListingStore) List(ctx context.Context, limit int) ([]*domain.Listing, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) ([]*domain.Listing, error) {
		opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
		if limit > 0 {
			opts.SetLimit(int64(limit))
		}

		cursor, err := s.collection.Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, fmt.Errorf("find listings: %w", err)
		}

		var docs []listingDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("decode listings: %w", err)
		}

		listings := make([]*domain.Listing, 0, len(docs))
		for i := range docs {
			listings = append(listings, docs[i].toDomain())
		}
		return listings, nil
	})
}

// Get returns domain.ErrListingNotFound for unknown or malformed ids
func (s *ListingStore) Get(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	return guarded(ctx, s.guard, func(ctx context.Context) (*domain.Listing, error) {
		var doc listingDocument
		err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find listing: %w", err)
		}
		return doc.toDomain(), nil
	})
}

// Create inserts l and sets its ID and timestamps
func (s *ListingStore) Create(ctx context.Context, l *domain.Listing) (string, error) {
	now := time.Now().UTC()
	doc := listingDocument{
		ID:          primitive.NewObjectID(),
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := guarded(ctx, s.guard, func(ctx context.Context) (string, error) {
		if _, err := s.collection.InsertOne(ctx, doc); err != nil {
			return "", fmt.Errorf("insert listing: %w", err)
		}
		return doc.ID.Hex(), nil
	})
	if err != nil {
		return "", err
	}

	l.ID = id
	l.CreatedAt = now
	l.UpdatedAt = now
	return id, nil
}

// Update overwrites the editable fields and returns the stored listing
func (s *ListingStore) Update(ctx context.Context, id string, f domain.ListingFields) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	return guarded(ctx, s.guard, func(ctx context.Context) (*domain.Listing, error) {
		update := bson.M{"$set": bson.M{
			"title":       f.Title,
			"description": f.Description,
			"image":       f.Image,
			"price":       f.Price,
			"location":    f.Location,
			"country":     f.Country,
			"updatedAt":   time.Now().UTC(),
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var doc listingDocument
		err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("update listing: %w", err)
		}
		return doc.toDomain(), nil
	})
}

// Delete removes the listing; unknown ids are not an error
func (s *ListingStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	_, err = guarded(ctx, s.guard, func(ctx context.Context) (struct{}, error) {
		if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			return struct{}{}, fmt.Errorf("delete listing: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// DeleteAll empties the collection and reports how many listings were removed
func (s *ListingStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	return res.DeletedCount, nil
}
