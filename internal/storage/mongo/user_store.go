package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserStore persists accounts in the users collection. Email uniqueness is
// enforced by the index created in EnsureIndexes.
type UserStore struct {
	collection *mongo.Collection
	guard      *Guard
}

// NewUserStore creates a user store; guard may be nil
func NewUserStore(db *DB, guard *Guard) *UserStore {
	return &UserStore{
		collection: db.Database().Collection(UsersCollection),
		guard:      guard,
	}
}

// CreateUser inserts u and sets its ID and timestamps
func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := guarded(ctx, s.guard, func(ctx context.Context) (struct{}, error) {
		_, err := s.collection.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return struct{}{}, domain.ErrUserAlreadyExists
		}
		if err != nil {
			return struct{}{}, fmt.Errorf("insert user: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) (*domain.User, error) {
		var doc userDocument
		err := s.collection.FindOne(ctx, filter).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		return doc.toDomain(), nil
	})
}
